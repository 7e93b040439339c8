// Package view turns snapshot batches into the dashboard table.
//
// The table lives in a Document, an in-memory stand-in for the page: a
// table that can be hidden and an optional "no data" notice. Render
// replaces the whole document content from one batch; nothing is kept
// between renders, so rendering the same batch twice yields the same
// document.
package view
