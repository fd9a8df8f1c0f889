// Package paint generates wholly synthetic drawing sessions.
//
// A generated session walks a recorded paint application through its
// quest/draw/clear loop: quest prompt, strokes replayed from an
// external doodle dataset onto the canvas region, and the
// File > New > discard-save click sequence between doodles. The output
// is an ordinary event timeline, so synthetic sessions flow through
// the same formatting and dataset stages as recorded ones.
package paint
