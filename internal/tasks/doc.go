// Package tasks implements the track-resolution pipeline.
//
// The core abstraction is Engine, which resolves playlist entries against
// the catalog: a per-track matcher state machine drives query generation,
// candidate fetching and scoring, and a bounded worker pool runs the matcher
// per playlist under per-track time budgets and cooperative cancellation.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
