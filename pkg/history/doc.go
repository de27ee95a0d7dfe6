// Package history stores a log of evaluations and rewrites.
//
// Records are written through a Store; SQLiteStore persists them with the
// pure-Go modernc.org/sqlite driver and MemoryStore keeps them in process.
// A Recorder queues writes so request handlers never block on the
// database, and a Pruner, optionally driven by a cron Scheduler, enforces
// age and count retention.
//
//	store, err := history.NewSQLiteStore(&history.SQLiteConfig{Path: "data/history.db", WALMode: true})
//	rec := history.NewRecorder(store, nil)
//	defer rec.Close()
//
//	r := history.NewRecord("evaluate", "x + 0")
//	r.Output = "x"
//	_ = rec.Record(ctx, r)
package history
