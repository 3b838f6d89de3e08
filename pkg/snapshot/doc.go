// Package snapshot captures the values of registered subjects and restores
// them later.
//
// A Snapshot holds one textual literal per assignable subject, the same
// literals inspect.Registry.Assign accepts. Pointer and group subjects are
// skipped. Snapshots are encoded with a Codec (JSON or canonical CBOR) and
// kept in a Store (a local directory or an S3 bucket):
//
//	archive := snapshot.NewArchive(store, snapshot.CBOR)
//	snap := snapshot.Capture(reg)
//	err := archive.Save(ctx, "evening", snap)
//
// Capture and Apply read and write subjects, so they must run on the
// goroutine that owns them (see package loop).
package snapshot
