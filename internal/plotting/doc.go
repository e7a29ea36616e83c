// Package plotting renders channel profiles as PNG line plots using
// gonum/plot. Each channel gets one image showing the per-gate mean over all
// of its profiles, drawn against the range axis when calibration computed one
// and against the gate index otherwise.
package plotting
