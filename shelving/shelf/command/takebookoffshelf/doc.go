// Package takebookoffshelf implements the Take Book off Shelf use case.
// It frees a slot: a full shelf becomes partial, a shelf holding one book becomes empty.
package takebookoffshelf
