// Package extract turns raw session artifacts into timeline events.
//
// Three extractors cover the three artifact types: the protocol log
// (keyboard and mouse activity), the application event log (quests and
// hints), and the screen recording (periodic frames). Each runs
// independently; the pipeline concatenates and orders their output.
package extract
