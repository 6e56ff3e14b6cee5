// Package store provides persistence for sealchat's local data.
//
// File-based stores serialise JSON on disk under the user's configured home
// directory and are concurrency-safe via internal locking. Writes go through
// a temp file and rename.
//
// The package includes:
//   - Identity keys, sealed under the passphrase (IdentityFileStore)
//   - Signed pre-keys (PrekeyFileStore)
//   - The last registered pre-key bundle (BundleFileStore)
//   - Per-relay account profiles (AccountFileStore)
//   - A string-keyed store with two backends: a JSON file (KVFileStore)
//     and BadgerDB (BadgerStore)
//   - Session ephemeral bookkeeping on top of either KV backend
//     (SessionStateStore)
package store
