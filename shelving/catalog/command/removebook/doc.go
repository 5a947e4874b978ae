// Package removebook implements the Remove Book from Catalog use case.
//
// A shelved book is taken off its shelf in the same append, so no placement ever points at a
// book that no longer exists.
package removebook
