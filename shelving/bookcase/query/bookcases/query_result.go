package bookcases

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDeleting Status = "deleting"
)

type Bookcase struct {
	BookcaseID           string    `json:"bookcaseId"`
	OwnerID              string    `json:"ownerId"`
	Label                string    `json:"label"`
	Location             string    `json:"location"`
	Zone                 string    `json:"zone"`
	ZoneIndex            int       `json:"zoneIndex"`
	ShelfCapacity        int       `json:"shelfCapacity"`
	BookCapacityPerShelf int       `json:"bookCapacityPerShelf"`
	NominalCapacity      int       `json:"nominalCapacity"`
	Status               Status    `json:"status"`
	CreatedAt            time.Time `json:"createdAt"`
}

type Bookcases struct {
	Bookcases      []Bookcase `json:"bookcases"`
	Count          int        `json:"count"`
	SequenceNumber uint       `json:"sequenceNumber"`
}
