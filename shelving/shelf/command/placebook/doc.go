// Package placebook implements the Place Book on Shelf use case.
//
// The decision reads one dynamic stream: the shelf's lifecycle, the shelf's placement ledger,
// and the book's catalog and placement facts. The append is conditional on that stream, so the
// capacity check and the write are atomic. Two placements racing for the last slot can not both
// succeed: the loser's append conflicts, its retry sees the full shelf and fails with
// CapacityExceeded.
package placebook
