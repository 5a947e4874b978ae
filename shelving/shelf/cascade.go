package shelf

import (
	"errors"
	"strings"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

// CascadePolicy decides what happens to the books on shelves that are removed.
type CascadePolicy string

const (
	// CascadeUnassign takes the books off their shelves; they stay in the catalog.
	CascadeUnassign CascadePolicy = "unassign"

	// CascadeDelete removes the books from the catalog as well.
	CascadeDelete CascadePolicy = "delete"
)

// ParseCascadePolicy accepts "unassign" and "delete", case-insensitive. Empty means CascadeUnassign.
func ParseCascadePolicy(s string) (CascadePolicy, error) {
	switch CascadePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CascadeUnassign:
		return CascadeUnassign, nil
	case CascadeDelete:
		return CascadeDelete, nil
	default:
		return "", errors.Join(core.ErrInvalidArgument, errors.New("unknown cascade policy: "+s))
	}
}

func (p CascadePolicy) String() string {
	return string(p)
}
