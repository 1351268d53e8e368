package store_test

import (
	"context"
	"testing"
	"time"

	"shiftly/internal/models"
	"shiftly/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// The eligibility predicate lives entirely in one generated query; this pins
// down its shape: the half-open date window on both bounds, the opt-in and
// non-empty-address filters, and the anti-join that excludes only shifts with
// a prior *successful* delivery of the same kind (a Fail row keeps the shift
// eligible, which is what makes re-running a date after failures idempotent
// for the successes and a retry for the failures).
func TestEligibilitySelectBuildsWindowAndAntiJoin(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	query := store.NewEligibilityQuery(gormDB)

	from := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(`FROM "shift" LEFT JOIN "volunteer" "Volunteer".*`+
		`shift\.date >= \$1 AND shift\.date < \$2.*`+
		`"Volunteer"\.opt_in = \$3 AND "Volunteer"\.address <> ''.*`+
		`NOT EXISTS.*FROM delivery_record d.*`+
		`d\.shift_id = shift\.id AND d\.reminder_kind = \$4 AND d\.status = \$5.*`+
		`ORDER BY shift\.date, shift\.id`).
		WithArgs(from, to, true, models.KindSameDay, models.DeliverySuccess).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	eligible, err := query.Select(context.Background(), from, to, models.KindSameDay)
	require.NoError(t, err)
	assert.Empty(t, eligible)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEligibilitySelectPairsShiftsWithVolunteers(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	query := store.NewEligibilityQuery(gormDB)

	from := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{
		"id", "date", "label", "vehicle", "volunteer_id",
		"Volunteer__id", "Volunteer__first_name", "Volunteer__last_name",
		"Volunteer__display_name", "Volunteer__address", "Volunteer__opt_in",
	}).AddRow(
		"s1", from, "בוקר", "צפון-1", "v1",
		"v1", "Dana", "Levi", "Dana L.", "dana@example.org", true,
	)

	mock.ExpectQuery(`FROM "shift" LEFT JOIN "volunteer" "Volunteer"`).
		WithArgs(from, to, true, models.KindSameDay, models.DeliverySuccess).
		WillReturnRows(rows)

	eligible, err := query.Select(context.Background(), from, to, models.KindSameDay)
	require.NoError(t, err)
	require.Len(t, eligible, 1)

	assert.Equal(t, "s1", eligible[0].Shift.ID)
	assert.Equal(t, "בוקר", eligible[0].Shift.Label)
	assert.Equal(t, "v1", eligible[0].Volunteer.ID)
	assert.Equal(t, "dana@example.org", eligible[0].Volunteer.Address)
	assert.True(t, eligible[0].Volunteer.OptIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}
