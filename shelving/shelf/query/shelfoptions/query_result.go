package shelfoptions

type ShelfOption struct {
	ShelfID      string `json:"shelfId"`
	BookcaseID   string `json:"bookcaseId"`
	Position     int    `json:"position"`
	Label        string `json:"label"`
	Capacity     int    `json:"capacity"`
	CurrentCount int    `json:"currentCount"`
	HasSpace     bool   `json:"hasSpace"`
}

type ShelfOptions struct {
	Shelves        []ShelfOption `json:"shelves"`
	Count          int           `json:"count"`
	SequenceNumber uint          `json:"sequenceNumber"`
}
