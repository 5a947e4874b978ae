package integrity

const (
	queryType = "DanglingPlacements"
)

type Query struct{}

func BuildQuery() Query {
	return Query{}
}

func (q Query) QueryType() string {
	return queryType
}
