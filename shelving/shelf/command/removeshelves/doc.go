// Package removeshelves implements the removal of all shelves of a bookcase.
//
// The books go first: depending on the cascade policy they are unassigned or deleted through the
// BookAccessPort. The ShelfRemoved facts are then appended conditionally on a stream that holds
// the bookcase's shelves and their placement ledgers, so the append also proves the shelves are
// empty. If a book arrived in between, the whole step is retried.
package removeshelves
