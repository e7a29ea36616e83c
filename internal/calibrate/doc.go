// Package calibrate applies the post-parse calibration passes to a finalised
// FileState: it computes the range axis of each configured channel and
// removes the mean background level, measured over a fixed gate window, from
// every profile.
package calibrate
