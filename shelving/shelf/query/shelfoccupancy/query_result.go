package shelfoccupancy

type State string

const (
	StateEmpty   State = "EMPTY"
	StatePartial State = "PARTIAL"
	StateFull    State = "FULL"
)

// StateFor maps a book count onto the occupancy states of a shelf with the given capacity.
func StateFor(bookCount, capacity int) State {
	switch {
	case bookCount <= 0:
		return StateEmpty
	case bookCount >= capacity:
		return StateFull
	default:
		return StatePartial
	}
}

type Occupancy struct {
	ShelfID        string `json:"shelfId"`
	BookcaseID     string `json:"bookcaseId"`
	Capacity       int    `json:"capacity"`
	BookCount      int    `json:"bookCount"`
	State          State  `json:"state"`
	SequenceNumber uint   `json:"sequenceNumber"`
}

func (o Occupancy) IsFull() bool {
	return o.BookCount >= o.Capacity
}
