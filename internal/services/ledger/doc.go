// Package ledger implements the per-session key ledger.
//
// Every session owns an index-addressable list of symmetric keys, one slot
// per message number. A slot is written at most once; later writes to the
// same index are discarded. Slots that were never written are holes.
package ledger
