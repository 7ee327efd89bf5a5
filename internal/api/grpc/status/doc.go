// Package status implements the gRPC transport for the control node status.
//
// The service has a single unary method, GetStatus, which takes an empty
// request and answers with a google.protobuf.Struct describing the node.
// The service descriptor is declared by hand so the well-known types are the
// only messages on the wire.
package status
