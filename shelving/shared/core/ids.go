package core

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
)

// The identifier types are distinct so that a ShelfID can never be passed where a BookID is expected.
// Events carry their string form.

type (
	BookcaseID uuid.UUID
	ShelfID    uuid.UUID
	BookID     uuid.UUID
	AuthorID   uuid.UUID
	OwnerID    uuid.UUID
)

func NewBookcaseID() BookcaseID { return BookcaseID(uuid.New()) }
func NewBookID() BookID         { return BookID(uuid.New()) }
func NewAuthorID() AuthorID     { return AuthorID(uuid.New()) }
func NewOwnerID() OwnerID       { return OwnerID(uuid.New()) }

// ShelfIDFor derives the id of the shelf at position in a bookcase.
// The same inputs always give the same id, so a replayed bookcase creation recreates the same shelves.
func ShelfIDFor(bookcaseID BookcaseID, position int) ShelfID {
	return ShelfID(uuid.NewSHA1(uuid.UUID(bookcaseID), []byte(strconv.Itoa(position))))
}

func (id BookcaseID) String() string { return uuid.UUID(id).String() }
func (id ShelfID) String() string    { return uuid.UUID(id).String() }
func (id BookID) String() string     { return uuid.UUID(id).String() }
func (id AuthorID) String() string   { return uuid.UUID(id).String() }
func (id OwnerID) String() string    { return uuid.UUID(id).String() }

// Identifiers marshal to their string form in JSON output.

func (id BookcaseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ShelfID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id BookID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id AuthorID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id OwnerID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id BookcaseID) IsZero() bool { return id == BookcaseID(uuid.Nil) }
func (id ShelfID) IsZero() bool    { return id == ShelfID(uuid.Nil) }
func (id BookID) IsZero() bool     { return id == BookID(uuid.Nil) }
func (id AuthorID) IsZero() bool   { return id == AuthorID(uuid.Nil) }
func (id OwnerID) IsZero() bool    { return id == OwnerID(uuid.Nil) }

func ParseBookcaseID(s string) (BookcaseID, error) {
	u, err := parse(s)
	return BookcaseID(u), err
}

func ParseShelfID(s string) (ShelfID, error) {
	u, err := parse(s)
	return ShelfID(u), err
}

func ParseBookID(s string) (BookID, error) {
	u, err := parse(s)
	return BookID(u), err
}

func ParseAuthorID(s string) (AuthorID, error) {
	u, err := parse(s)
	return AuthorID(u), err
}

func ParseOwnerID(s string) (OwnerID, error) {
	u, err := parse(s)
	return OwnerID(u), err
}

// MustShelfID is for ids read back from events, which were valid when they were written.
func MustShelfID(s string) ShelfID {
	return ShelfID(uuid.MustParse(s))
}

// MustBookID is for ids read back from events, which were valid when they were written.
func MustBookID(s string) BookID {
	return BookID(uuid.MustParse(s))
}

// MustBookcaseID is for ids read back from events, which were valid when they were written.
func MustBookcaseID(s string) BookcaseID {
	return BookcaseID(uuid.MustParse(s))
}

func MustOwnerID(s string) OwnerID {
	return OwnerID(uuid.MustParse(s))
}

func parse(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidArgument, err)
	}

	return u, nil
}
