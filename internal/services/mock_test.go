package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(containsMatcher()),
	)
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{})

	require.NoError(t, err)

	return gdb, mock, func() { mockDB.Close() }
}

// containsMatcher matches on a normalized fragment of the statement, so tests
// pin down the table and verb without replaying gorm's exact column lists.
func containsMatcher() sqlmock.QueryMatcher {
	return sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		normalize := func(s string) string {
			return strings.Join(strings.Fields(s), " ")
		}

		if strings.Contains(normalize(actual), normalize(expected)) {
			return nil
		}

		return fmt.Errorf("statement %q does not contain %q", actual, expected)
	})
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
