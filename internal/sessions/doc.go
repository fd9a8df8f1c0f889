// Package sessions persists the registry of recorded and synthetic
// training sessions in SQLite: their artifact paths, processing status,
// and dataset statistics.
package sessions
