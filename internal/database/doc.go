// Package database provides SQLite-based persistence for scan results.
//
// Results are stored twice: the complete result as JSON for lossless
// retrieval, and the extracted people as relational rows so they can be
// queried across scans without deserializing whole results.
package database
