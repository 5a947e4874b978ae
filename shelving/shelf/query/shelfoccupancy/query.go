package shelfoccupancy

import (
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	queryType = "ShelfOccupancy"
)

type Query struct {
	ShelfID core.ShelfID
}

func BuildQuery(shelfID core.ShelfID) Query {
	return Query{ShelfID: shelfID}
}

func (q Query) QueryType() string {
	return queryType
}
