package books

const (
	queryType = "CatalogBooks"
)

// Query lists the books still in the catalog. A non-empty ShelfID restricts the list to that shelf.
type Query struct {
	ShelfID string
}

func BuildQuery() Query {
	return Query{}
}

func BuildQueryForShelf(shelfID string) Query {
	return Query{ShelfID: shelfID}
}

func (q Query) QueryType() string {
	return queryType
}
