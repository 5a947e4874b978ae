package integrity

// DanglingPlacement is a book whose current shelf is not a live shelf.
type DanglingPlacement struct {
	BookID  string `json:"bookId"`
	ShelfID string `json:"shelfId"`
}

type DanglingPlacements struct {
	Placements     []DanglingPlacement `json:"placements"`
	Count          int                 `json:"count"`
	SequenceNumber uint                `json:"sequenceNumber"`
}
