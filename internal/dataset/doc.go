// Package dataset folds decoded instrument records into per-channel profile
// state and drives a complete pass over an instrument file.
//
// A FileState owns every Channel declared by DCLID records plus the
// file-scoped Metadata. Channel records (DETPAR, OVL, AFPL, DP) must follow the
// DCLID that declared their channel; anything else aborts the parse. Profiles
// accumulate in an append-only row buffer and are materialised into a gonum
// matrix once, at finalisation.
//
// Parsing is single pass and order preserving. With more than one worker the
// decode step runs concurrently, but records are still folded strictly in
// file order and the earliest failing line is the one reported.
package dataset
