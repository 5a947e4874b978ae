// Package createshelf implements the Create Shelf use case.
//
// Positions are 1-based and unique within a bookcase. Shelf ids are derived from bookcase and
// position, so replaying a bookcase creation hits the idempotent path instead of duplicating shelves.
package createshelf
