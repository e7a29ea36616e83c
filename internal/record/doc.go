// Package record decodes single lines of the instrument's tagged text format
// into typed records.
//
// Every line starts with a tag (FILEV, INSCFG, DCLID, DETPAR, OVL, AFPL, DP)
// followed by fixed-position fields joined by a per-file column separator.
// Decode looks the tag up in a static dispatch table and converts the fields of
// that record kind; tags absent from the table yield ErrUnknownTag so callers
// can skip record kinds introduced by newer recorder firmware.
//
// Time fields are fractional day counts in the spreadsheet convention (day 1 is
// 1899-12-31 and the fictitious 1900-02-29 is counted); DecodeTime converts them
// to UTC instants.
package record
