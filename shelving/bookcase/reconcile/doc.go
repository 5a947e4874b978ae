// Package reconcile finishes the work that interrupted sagas left behind.
//
// One pass resumes bookcase deletions that started but never finished, resumes bookcase creations
// that are older than StaleAfter and still lack shelves, and repairs placements that point at removed
// shelves. Every step it triggers is idempotent, so passes may overlap with regular traffic and with
// each other.
package reconcile
