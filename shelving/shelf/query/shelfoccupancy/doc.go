// Package shelfoccupancy answers whether a shelf is full.
//
// The shelf's capacity comes from its ShelfAdded fact; the book count is asked live from the
// book access port. The answer is a read, not a reservation: placebook repeats the check inside
// its own conditional append.
package shelfoccupancy
