// Package transport opens the physical link that carries the Command Channel.
//
// A link is a serial port in the field (9600 baud, 8N1) or a TCP connection
// when the nodes run on separate hosts during development. Both look like an
// io.ReadWriteCloser to the protocol package. Debug wraps a link and logs
// every transferred chunk as a hex dump.
package transport
