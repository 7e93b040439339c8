// Package connection implements the Connection Manager component.
//
// The Connection Manager:
//   - Owns the single websocket to the dashboard push service
//   - Tracks the lifecycle state (disconnected, connecting, open, closed)
//   - Reconnects after every close, forever, using a delay Policy (5s fixed by default)
//   - Hands every inbound text message to one handler, in delivery order
//   - Sends the "refresh" command only while the connection is open
package connection
