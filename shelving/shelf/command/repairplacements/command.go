package repairplacements

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

const (
	commandType = "RepairDanglingPlacements"
)

type Command struct {
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(occurredAt time.Time) Command {
	return Command{
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
