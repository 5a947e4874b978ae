// Package deletebookcase deletes a bookcase in three steps: mark the deletion as started, remove
// the shelves through ShelfAccessPort (which takes care of their books first), mark the bookcase
// as deleted.
//
// Each step is idempotent, so a deletion that stopped halfway is finished by sending the command again.
package deletebookcase
