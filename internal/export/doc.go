// Package export renders a parsed FileState as the portable JSON document
// consumed by downstream analysis: a data_dict keyed by channel id and a
// metadata_dict holding whatever file-scoped records were present. Every
// timestamp is written as Unix epoch seconds.
package export
