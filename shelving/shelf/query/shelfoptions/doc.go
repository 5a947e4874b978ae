// Package shelfoptions lists the live shelves a book could be placed on, with their current fill.
package shelfoptions
