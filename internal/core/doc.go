// Package core provides the species lookup logic.
//
// It holds the record shapes, the immutable [Snapshot] built once per process
// by the loader, and the substring filters run per query. Nothing here does
// I/O; the web server, the CLI and tests all hand it a snapshot.
//
// # Records
//
// [Record] covers Schedules I-III and, in unified form, Schedule IV.
// [Specimen] is the Schedule IV text list where each entry is a whole source
// cell tagged with its appendix.
//
// # Matching
//
// [FilterRecords] and [FilterSpecimens] keep the items whose fields contain
// the trimmed query, compared case-insensitively. Fields are combined with
// AND and the original order is kept. An empty query is resolved by an
// explicit [EmptyQueryPolicy].
package core
