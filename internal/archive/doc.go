// Package archive keeps parsed instrument files in a SQLite database so their
// profiles can be listed, inspected and re-read without the original text.
//
// Each saved file gets a random UUID. Channel descriptions and every profile
// row are stored with the file and removed with it. The layout version lives
// in the SQLite header; an archive stamped with another version is reported
// as ErrSchemaMismatch rather than migrated. While a Store is open it holds an
// exclusive flock on a sibling ".lock" file so two writers never share one
// archive.
package archive
