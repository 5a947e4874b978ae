// Package registerauthor implements the Register Author use case of the catalog.
//
// Books reference authors by id; a book can only be added once all of its authors are registered.
package registerauthor
