// Package augment enriches extracted timelines with model-generated
// annotation events.
//
// Each augmenter samples a bounded number of candidates per session,
// calls the vision model (and OCR, where needed), and appends new
// events without touching the originals. A failed candidate is logged
// and skipped; only infrastructure-level failures abort a stage.
package augment
