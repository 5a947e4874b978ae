package shelf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

func Test_ParseCascadePolicy(t *testing.T) {
	testCases := []struct {
		input   string
		want    shelf.CascadePolicy
		wantErr error
	}{
		{input: "", want: shelf.CascadeUnassign},
		{input: "unassign", want: shelf.CascadeUnassign},
		{input: " DELETE ", want: shelf.CascadeDelete},
		{input: "shred", wantErr: core.ErrInvalidArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := shelf.ParseCascadePolicy(tc.input)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
