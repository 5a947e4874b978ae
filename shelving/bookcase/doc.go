// Package bookcase holds the bookcase lifecycle: creating a bookcase together with its shelves,
// deleting it with its shelves, listing bookcases and reconciling interrupted work.
//
// The module never reads shelf facts itself. Everything about shelves goes through ShelfAccessPort,
// which the shelf module implements in shelf/bookcaseaccess.
//
// Feature packages:
//   - command/createbookcase
//   - command/deletebookcase
//   - query/bookcases
//   - reconcile
package bookcase
