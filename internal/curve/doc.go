// Package curve provides the trajectory geometry used by the pipeline:
// arc-length resampling of recorded drag paths to a fixed control-point
// count, and B-spline evaluation for synthetic stroke smoothing.
package curve
