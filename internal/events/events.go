// Package events defines the broken-reference event model and publishers.
//
// Events are published for downstream processing (e.g. opening forge issues
// for broken documentation references). Publishing is best effort: the
// pipeline never fails a run because an event could not be delivered.
package events

import (
	"context"
	"time"
)

// BrokenReferenceEvent describes one invalid cross-document reference.
type BrokenReferenceEvent struct {
	RunID       string    `json:"run_id"`
	SourceID    string    `json:"source_id"`  // document the reference appears in
	Reference   string    `json:"reference"`  // original reference text
	Resolved    string    `json:"resolved"`   // best-effort target it would have pointed to
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers broken-reference events to a downstream system.
type Publisher interface {
	PublishBrokenReference(ctx context.Context, event *BrokenReferenceEvent) error
	Close() error
}

// NoopPublisher discards events (default when publishing is not configured).
type NoopPublisher struct{}

func (NoopPublisher) PublishBrokenReference(context.Context, *BrokenReferenceEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
