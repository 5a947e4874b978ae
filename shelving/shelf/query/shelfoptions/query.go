package shelfoptions

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	queryType = "ShelfOptions"
)

// Query lists the shelves of one bookcase, or of all bookcases when BookcaseID is zero.
type Query struct {
	BookcaseID core.BookcaseID
}

func BuildQuery() Query {
	return Query{}
}

func BuildQueryForBookcase(bookcaseID core.BookcaseID) Query {
	return Query{BookcaseID: bookcaseID}
}

func (q Query) QueryType() string {
	return queryType
}
