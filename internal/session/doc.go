// Package session wires the connection manager to the table renderer.
//
// A Session owns one websocket, one Document, and the sinks that display
// it. Every inbound message is decoded and fully rendered on the manager
// loop before the next one is read, so renders never interleave.
package session
