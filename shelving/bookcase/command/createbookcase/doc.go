// Package createbookcase creates a bookcase and then its shelves, one ShelfAccessPort call per position.
//
// The bookcase fact is appended first. If a shelf cannot be created, the shelves created so far are
// removed again and the bookcase is closed with a BookcaseDeleted fact whose reason is
// "creation rolled back". Sending the same command again resumes an interrupted creation.
package createbookcase
