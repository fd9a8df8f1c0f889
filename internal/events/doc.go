// Package events defines the canonical timeline event types produced by
// extractors and augmenters. Events are immutable once appended to a
// timeline; augmentation stages add new events rather than editing
// existing ones.
package events
