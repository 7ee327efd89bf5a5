// Package credential persists the control node credential in byte-addressable
// storage: five consecutive bytes at a fixed base address, no header, no
// checksum, one settle delay after every access.
package credential
