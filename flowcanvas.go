// Package flowcanvas provides a top-level convenience entry point for
// embedding the flow consistency engine with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/flowcanvas"
//
//	st := flowcanvas.NewStore(flow.Document{})
//	state, notice, err := st.Dispatch(store.AddNode{Node: node})
//
// This is a thin wrapper around [store.New]; both produce identical results.
// Use this package when you prefer the shorter import path.
package flowcanvas

import (
	"github.com/BaSui01/flowcanvas/flow"
	"github.com/BaSui01/flowcanvas/store"
)

// Option configures the store created by [NewStore].
type Option = store.Option

// NewStore creates a [store.Store] seeded with the given document.
func NewStore(doc flow.Document, opts ...Option) *store.Store {
	return store.New(doc, opts...)
}

// Re-export store options so embedders never need to import store/ for setup.

// WithHistory keeps the last n committed states for undo-style inspection.
var WithHistory = store.WithHistory

// WithLimits caps the document's node and edge counts.
var WithLimits = store.WithLimits

// WithLogger sets the store's zap logger.
var WithLogger = store.WithLogger

// Decode parses and validates a flow document from canonical JSON.
var Decode = flow.Decode
