// Package sqlite persists the sync queue and the housekeeping schedule in
// a single queue.db file using modernc.org/sqlite, so builds stay CGO free.
//
// Times are stored as Unix nanoseconds with 0 meaning unset. The schema is
// versioned by the numbered *.up.sql files in migrations/, each applied in
// its own transaction. The database runs in WAL mode so the webhook can
// enqueue while workers claim tasks.
package sqlite
