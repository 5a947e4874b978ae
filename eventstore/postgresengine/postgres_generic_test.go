package postgresengine_test

import (
	"testing"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore/internal/enginetest"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/config"
	"github.com/AntonStoeckl/dynamic-streams-shelving/testutil/storewrapper"
)

// Runs against SHELVING_TEST_POSTGRES_DSN, or the local test database when SHELVING_TEST_ENGINE
// names a postgres driver.
func Test_PostgresEngine_Behavior(t *testing.T) {
	for _, driver := range []string{config.DriverPGXPool, config.DriverSQLDB, config.DriverSQLX} {
		t.Run(driver, func(t *testing.T) {
			enginetest.Run(t, func(t *testing.T) eventstore.EventStore {
				return storewrapper.OpenPostgres(t, driver)
			})
		})
	}
}
