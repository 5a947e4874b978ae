package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/memengine"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

func Test_AppendDecision(t *testing.T) {
	bookID := core.NewBookID()
	shelfID := core.ShelfIDFor(core.NewBookcaseID(), 1)
	placed := core.BuildBookPlacedOnShelf(bookID, shelfID, time.Now())
	failed := core.BuildPlacingBookOnShelfFailed(bookID, shelfID, "shelf is full", time.Now())
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookPlacedOnShelfEventType, core.PlacingBookOnShelfFailedEventType).
		Finalize()

	testCases := []struct {
		name           string
		decision       core.DecisionResult
		wantIdempotent bool
		wantErr        error
		wantEvents     int
	}{
		{name: "idempotent", decision: core.IdempotentDecision(), wantIdempotent: true},
		{name: "success", decision: core.SuccessDecision(placed), wantEvents: 1},
		{name: "failure event", decision: core.ErrorDecision(failed, core.ErrCapacityExceeded), wantErr: core.ErrCapacityExceeded, wantEvents: 1},
		{name: "rejection", decision: core.RejectionDecision(core.ErrNotFound), wantErr: core.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			es, err := memengine.NewEventStore()
			require.NoError(t, err)

			// act
			idempotent, err := shell.AppendDecision(ctx, es, filter, 0, tc.decision)

			// assert
			assert.Equal(t, tc.wantIdempotent, idempotent)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			history, maxSeq, err := shell.QueryHistory(ctx, es, filter)
			require.NoError(t, err)
			assert.Len(t, history, tc.wantEvents)
			assert.Equal(t, eventstore.MaxSequenceNumberUint(tc.wantEvents), maxSeq)
		})
	}
}

func Test_AppendDecision_StaleSequenceNumberConflicts(t *testing.T) {
	// arrange
	ctx := context.Background()
	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	placed := core.BuildBookPlacedOnShelf(core.NewBookID(), core.ShelfIDFor(core.NewBookcaseID(), 1), time.Now())
	filter := eventstore.BuildEventFilter().Matching().AnyEventTypeOf(core.BookPlacedOnShelfEventType).Finalize()

	_, err = shell.AppendDecision(ctx, es, filter, 0, core.SuccessDecision(placed))
	require.NoError(t, err)

	// act
	_, err = shell.AppendDecision(ctx, es, filter, 0, core.SuccessDecision(placed))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
}
