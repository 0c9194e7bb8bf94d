// Package activity is the activity logging collaborator: it persists
// and retrieves the lifecycle events the manager emits.
//
// Events are partitioned per resource type and kept in emission order
// within each type. Two Recorder implementations are provided:
//
//   - FileStore: one JSON-lines file per type under a directory, with
//     fsnotify-based tailing via Follow.
//   - SQLiteStore: a single SQLite database with embedded migrations.
//
// Recorder failures are non-fatal to the lifecycle operation they
// accompany; the manager logs them and moves on.
package activity
