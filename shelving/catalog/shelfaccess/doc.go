// Package shelfaccess is the catalog's implementation of shelf.BookAccessPort.
//
// Occupancy is read from the placement ledger, and the bulk operations clear whole shelves in
// one conditional append per call. A book joining or leaving one of the shelves in between makes
// the append conflict; the call then retries on fresh state.
package shelfaccess
