package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
)

type cliHarness struct {
	t          *testing.T
	configPath string
}

func newCLI(t *testing.T) cliHarness {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "shelving.toml")
	conf := "[storage]\nengine = \"sqlite\"\nsqlite_path = \"" + filepath.ToSlash(filepath.Join(dir, "shelving.db")) + "\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(conf), 0o600))

	return cliHarness{t: t, configPath: configPath}
}

func (c cliHarness) run(args ...string) ([]byte, error) {
	c.t.Helper()

	var out bytes.Buffer
	runner := NewRunner(RunnerOpts{Logger: log.New(&bytes.Buffer{}), Output: &out})
	err := runner.Command().Run(context.Background(), append([]string{appName, "--config", c.configPath}, args...))

	return out.Bytes(), err
}

func (c cliHarness) mustRun(args ...string) []byte {
	c.t.Helper()

	out, err := c.run(args...)
	require.NoError(c.t, err)

	return out
}

func Test_Runner_BookcaseLifecycle(t *testing.T) {
	// arrange
	c := newCLI(t)
	ownerID := core.NewOwnerID().String()

	// act
	var created struct {
		BookcaseID string `json:"bookcaseId"`
	}
	require.NoError(t, json.Unmarshal(c.mustRun(
		"bookcase", "create", "--owner", ownerID, "--label", "Hall", "--location", "Ground floor",
		"--shelves", "2", "--books-per-shelf", "1",
	), &created))

	var options struct {
		Shelves []struct {
			ShelfID  string `json:"shelfId"`
			Position int    `json:"position"`
		} `json:"shelves"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(c.mustRun("shelf", "options", "--bookcase", created.BookcaseID), &options))

	var bookcaseList struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(c.mustRun("bookcase", "list", "--owner", ownerID), &bookcaseList))

	c.mustRun("bookcase", "delete", "--id", created.BookcaseID)

	var afterDelete struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(c.mustRun("bookcase", "list"), &afterDelete))

	// assert
	assert.NotEmpty(t, created.BookcaseID)
	assert.Equal(t, 2, options.Count)
	assert.Equal(t, 1, options.Shelves[0].Position)
	assert.Equal(t, core.ShelfIDFor(core.MustBookcaseID(created.BookcaseID), 1).String(), options.Shelves[0].ShelfID)
	assert.Equal(t, 1, bookcaseList.Count)
	assert.Equal(t, 0, afterDelete.Count)
}

func Test_Runner_PlacingBeyondCapacityFails(t *testing.T) {
	// arrange
	c := newCLI(t)
	bookcaseID := core.NewBookcaseID()
	shelfID := core.ShelfIDFor(bookcaseID, 1).String()
	c.mustRun(
		"bookcase", "create", "--id", bookcaseID.String(), "--owner", core.NewOwnerID().String(),
		"--label", "Desk", "--shelves", "1", "--books-per-shelf", "1",
	)

	var first, second struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(c.mustRun("catalog", "add-book", "--title", "Dune"), &first))
	require.NoError(t, json.Unmarshal(c.mustRun("catalog", "add-book", "--title", "Emma"), &second))
	c.mustRun("shelf", "place", "--book", first.ID, "--shelf", shelfID)

	// act
	_, err := c.run("shelf", "place", "--book", second.ID, "--shelf", shelfID)

	// assert
	assert.ErrorIs(t, err, core.ErrCapacityExceeded)
	assert.Equal(t, exitCapacity, exitCodeFor(err))

	var occupancy struct {
		BookCount int    `json:"bookCount"`
		State     string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(c.mustRun("shelf", "occupancy", "--shelf", shelfID), &occupancy))
	assert.Equal(t, 1, occupancy.BookCount)
	assert.Equal(t, "FULL", occupancy.State)
}

func Test_Runner_ReconcileOnACleanStore(t *testing.T) {
	// arrange
	c := newCLI(t)

	// act
	out := c.mustRun("reconcile")

	// assert
	var report struct {
		Findings []any `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Empty(t, report.Findings)
}

func Test_Runner_InvalidIDs(t *testing.T) {
	// arrange
	c := newCLI(t)

	// act
	_, err := c.run("shelf", "occupancy", "--shelf", "not-a-uuid")

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, exitInvalid, exitCodeFor(err))
}

func Test_Runner_InitConfig(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "shelving.toml")
	runner := NewRunner(RunnerOpts{Logger: log.New(&bytes.Buffer{}), Output: &bytes.Buffer{}})

	// act
	err := runner.Command().Run(context.Background(), []string{appName, "--config", path, "init-config"})
	secondErr := runner.Command().Run(context.Background(), []string{appName, "--config", path, "init-config"})

	// assert
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Error(t, secondErr)
}

func Test_ExitCodeFor(t *testing.T) {
	assert.Equal(t, exitNotFound, exitCodeFor(errors.Join(core.ErrNotFound, errors.New("bookcase"))))
	assert.Equal(t, exitConflict, exitCodeFor(core.ErrDuplicateBookcase))
	assert.Equal(t, exitUnspecified, exitCodeFor(errors.New("boom")))
}

func Test_Runner_SeedFillsShelvesUpToCapacity(t *testing.T) {
	// arrange
	c := newCLI(t)

	// act
	out := c.mustRun("seed", "--bookcases", "1", "--shelves", "2", "--books-per-shelf", "2", "--books", "5")

	// assert
	var summary seedSummary
	require.NoError(t, json.Unmarshal(out, &summary))
	assert.Equal(t, 1, summary.Bookcases)
	assert.Equal(t, 5, summary.Books)
	assert.Equal(t, 4, summary.Placed)
	assert.Equal(t, 2, summary.ShelvesFull)
}
