// Package output displays rendered dashboard documents.
//
// Sinks:
//   - Terminal: a coloured table for the console (lipgloss)
//   - HTMLFile: the table markup written to a file, same classes as the web UI
//
// RenderHTML is also used by the preview server.
package output
