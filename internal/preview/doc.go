// Package preview serves the live table over local HTTP.
//
// Routes:
//   - GET  /         the current document as an HTML page
//   - GET  /table    the table fragment only
//   - POST /refresh  asks the push service for a new batch (202, or 409 when not connected)
//   - GET  /status   connection state and counters as JSON
//   - GET  /health   200 while the connection is open, 503 otherwise
package preview
