// Package shelf holds what the shelf module needs from other modules: the BookAccessPort, and the
// CascadePolicy that decides what happens to books whose shelves are removed.
//
// The feature packages live below: command/createshelf, command/placebook, command/takebookoffshelf,
// command/removeshelves, command/repairplacements, query/shelfoccupancy, query/shelfoptions and
// query/integrity. The bookcaseaccess package exposes them to the bookcase module.
package shelf
