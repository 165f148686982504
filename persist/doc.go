// Package persist round-trips surveillance series to and from storage.
//
// The persist package provides:
//
//   - Encode/Decode: a JSON snapshot codec that preserves the
//     distinction between an absent layer ("never computed") and a
//     populated one, and maps the in-memory NaN missing marker to JSON
//     null, which plain float encoding cannot represent.
//   - Store: a snapshotting SQLite-backed store keeping named series as
//     JSON payload blobs in a single table, in the spirit of "save the
//     whole container after every successful update".
//
// Serialization is a caller concern for the core packages; persist is
// the reference implementation of it.
package persist
