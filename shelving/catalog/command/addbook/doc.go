// Package addbook implements the Add Book to Catalog use case.
//
// A book carries opaque catalog data (title, ISBN, authors). All referenced authors must be
// registered; a removed book can not be added again under the same id.
package addbook
