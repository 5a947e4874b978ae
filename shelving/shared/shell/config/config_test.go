package config_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

func Test_DefaultConfig_IsValid(t *testing.T) {
	// act
	cfg := config.DefaultConfig()

	// assert
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, config.EngineSQLite, cfg.Storage.Engine)
	assert.Equal(t, "events", cfg.Storage.Table)
	assert.Equal(t, shelf.CascadeUnassign, cfg.CascadePolicy())
	assert.Equal(t, 30*time.Second, cfg.Reconcile.Interval.Duration)
	assert.Equal(t, time.Minute, cfg.Reconcile.StaleAfter.Duration)
	assert.Equal(t, 10*time.Millisecond, cfg.Retry.BaseDelay.Duration)
}

func Test_ParseConfig_OverridesOnlyTheGivenKeys(t *testing.T) {
	// arrange
	data := []byte(`
[storage]
engine = "memory"

[cascade]
policy = "delete"

[retry]
base_delay = "250ms"
`)

	// act
	cfg, err := config.ParseConfig(data)

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.EngineMemory, cfg.Storage.Engine)
	assert.Equal(t, shelf.CascadeDelete, cfg.CascadePolicy())
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay.Duration)
	assert.Equal(t, 6, cfg.Retry.MaxAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func Test_ParseConfig_RejectsUnknownKeys(t *testing.T) {
	// act
	_, err := config.ParseConfig([]byte("[storage]\nengin = \"memory\"\n"))

	// assert
	assert.ErrorIs(t, err, config.ErrUnknownConfigKeys)
	assert.ErrorContains(t, err, "storage.engin")
}

func Test_ParseConfig_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "unknown engine", data: "[storage]\nengine = \"mongo\"\n"},
		{name: "unknown postgres driver", data: "[storage]\nengine = \"postgres\"\ndriver = \"gorm\"\n"},
		{name: "empty postgres dsn", data: "[storage]\nengine = \"postgres\"\ndsn = \"\"\n"},
		{name: "empty table", data: "[storage]\ntable = \"\"\n"},
		{name: "unknown cascade policy", data: "[cascade]\npolicy = \"shred\"\n"},
		{name: "unknown log level", data: "[log]\nlevel = \"chatty\"\n"},
		{name: "zero reconcile interval", data: "[reconcile]\ninterval = \"0s\"\n"},
		{name: "zero retry attempts", data: "[retry]\nmax_attempts = 0\n"},
		{name: "jitter above one", data: "[retry]\njitter_factor = 1.5\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := config.ParseConfig([]byte(tc.data))

			// assert
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func Test_ParseConfig_RejectsMalformedDurations(t *testing.T) {
	// act
	_, err := config.ParseConfig([]byte("[retry]\nbase_delay = \"soon\"\n"))

	// assert
	assert.Error(t, err)
}

func Test_CreateConfigFile_ThenLoadConfig(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "shelving.toml")

	// act
	createErr := config.CreateConfigFile(path)
	cfg, loadErr := config.LoadConfig(path)
	secondCreateErr := config.CreateConfigFile(path)

	// assert
	require.NoError(t, createErr)
	require.NoError(t, loadErr)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Error(t, secondCreateErr)
}

func Test_LoadConfig_MissingFile(t *testing.T) {
	// act
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))

	// assert
	assert.Error(t, err)
}

func Test_RetryOptions_AreAccepted(t *testing.T) {
	// arrange
	cfg := config.DefaultConfig()
	cfg.Retry.MaxAttempts = 2
	cfg.Retry.BaseDelay = config.Duration{Duration: time.Millisecond}
	calls := 0

	// act
	metrics, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		calls++
		return eventstore.ErrConcurrencyConflict
	}, cfg.RetryOptions()...)

	// assert
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, metrics.RetriesExhausted)
}

func Test_OpenEventStore_Memory(t *testing.T) {
	// arrange
	cfg := config.DefaultConfig()
	cfg.Storage.Engine = config.EngineMemory

	// act
	store, err := cfg.Storage.OpenEventStore(context.Background(), config.Observers{})

	// assert
	require.NoError(t, err)
	defer store.Close()
	assert.NotNil(t, store.EventStore)
}

func Test_OpenEventStore_SQLiteCreatesTheEventsTable(t *testing.T) {
	// arrange
	cfg := config.DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "shelving.db")
	ctx := context.Background()

	// act
	store, err := cfg.Storage.OpenEventStore(ctx, config.Observers{})

	// assert
	require.NoError(t, err)
	defer store.Close()

	events, maxSeq, queryErr := store.EventStore.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, queryErr)
	assert.Empty(t, events)
	assert.Zero(t, maxSeq)
}

func Test_NewLogger_WritesAtTheConfiguredLevel(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	cfg := config.LogConfig{Level: "warn"}

	// act
	logger, err := cfg.NewSlogLogger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	// assert
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=value")
}
