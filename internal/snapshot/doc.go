// Package snapshot defines the project status records pushed by the
// monitoring backend and decodes the batches they arrive in.
//
// A batch is the full set of monitored projects at the time of the push.
// It replaces whatever was displayed before; batches are never merged.
//
// Optional fields are pointers. A nil pointer means the backend had no value
// for the field, which the view renders as a placeholder.
package snapshot
