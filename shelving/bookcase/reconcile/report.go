package reconcile

import (
	"fmt"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// Report lists what one pass did.
type Report struct {
	ResumedDeletions []core.BookcaseID `json:"resumedDeletions"`
	ResumedCreations []core.BookcaseID `json:"resumedCreations"`
	Findings         []Finding         `json:"findings"`
}

// Finding is a dangling placement the pass found and repaired.
type Finding struct {
	Placement bookcase.DanglingPlacement `json:"placement"`
}

// Err describes the finding as an integrity violation.
func (f Finding) Err() error {
	return core.Failure(
		core.ErrIntegrityViolation,
		core.BookTakenOffShelfEventType,
		fmt.Sprintf("book %s was on removed shelf %s", f.Placement.BookID, f.Placement.ShelfID),
	)
}

func (r Report) IsEmpty() bool {
	return len(r.ResumedDeletions) == 0 && len(r.ResumedCreations) == 0 && len(r.Findings) == 0
}
