package bookcases

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	queryType = "Bookcases"
)

// Query lists bookcases, of one owner when OwnerID is set.
type Query struct {
	OwnerID         core.OwnerID
	IncludeDeleting bool
}

func BuildQuery() Query {
	return Query{}
}

func BuildQueryForOwner(ownerID core.OwnerID) Query {
	return Query{OwnerID: ownerID}
}

// BuildQueryIncludingDeleting also lists the bookcases whose deletion has not finished.
func BuildQueryIncludingDeleting() Query {
	return Query{IncludeDeleting: true}
}

func (q Query) QueryType() string {
	return queryType
}
