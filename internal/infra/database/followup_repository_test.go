package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

func newFollowUpRepo(t *testing.T) (*FollowUpRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFollowUpRepository(db), mock
}

var followUpCols = []string{
	"id", "lead_id", "action", "notes", "performed_by",
	"scheduled_for", "completed_at", "created_at",
}

var joinedFollowUpCols = append(append([]string{}, followUpCols...),
	"company_name", "contact_person", "email")

func TestFollowUpCreate(t *testing.T) {
	repo, mock := newFollowUpRepo(t)

	scheduledFor := time.Now().Add(2 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO follow_ups")).
		WithArgs(int64(42), "Initial contact - respond within 2 hours", nil, nil, scheduledFor).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	f := &entity.FollowUp{
		LeadID:       42,
		Action:       "Initial contact - respond within 2 hours",
		ScheduledFor: &scheduledFor,
	}

	err := repo.Create(context.Background(), f)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUpFindPendingJoinsLead(t *testing.T) {
	repo, mock := newFollowUpRepo(t)

	now := time.Now()
	mock.ExpectQuery(`completed_at IS NULL AND f\.scheduled_for <= NOW\(\)`).
		WillReturnRows(sqlmock.NewRows(joinedFollowUpCols).
			AddRow(7, 42, "Initial contact - respond within 2 hours", nil, nil,
				now.Add(-time.Hour), nil, now,
				"Alpine Dynamics AG", "Lena Keller", "lena@alpinedynamics.ch"))

	followUps, err := repo.FindPending(context.Background())

	assert.NoError(t, err)
	require.Len(t, followUps, 1)
	assert.Equal(t, "Alpine Dynamics AG", followUps[0].CompanyName)
	assert.Equal(t, "lena@alpinedynamics.ch", followUps[0].LeadEmail)
}

func TestFollowUpFindUpcomingPassesDayWindow(t *testing.T) {
	repo, mock := newFollowUpRepo(t)

	mock.ExpectQuery(`scheduled_for BETWEEN NOW\(\) AND NOW\(\) \+ \$1 \* INTERVAL '1 day'`).
		WithArgs(14).
		WillReturnRows(sqlmock.NewRows(joinedFollowUpCols))

	followUps, err := repo.FindUpcoming(context.Background(), 14)

	assert.NoError(t, err)
	assert.Empty(t, followUps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUpCompletePreservesNotesWhenNil(t *testing.T) {
	repo, mock := newFollowUpRepo(t)

	mock.ExpectExec(`notes = CASE WHEN \$1::text IS NOT NULL THEN \$1 ELSE notes END`).
		WithArgs(nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM follow_ups WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(followUpCols).
			AddRow(7, 42, "Initial contact - respond within 2 hours", "kept notes", nil,
				nil, time.Now(), time.Now()))

	f, err := repo.Complete(context.Background(), 7, nil)

	assert.NoError(t, err)
	assert.Equal(t, "kept notes", *f.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUpCompleteMissing(t *testing.T) {
	repo, mock := newFollowUpRepo(t)

	mock.ExpectExec("UPDATE follow_ups").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Complete(context.Background(), 404, nil)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestFollowUpStatistics(t *testing.T) {
	repo, mock := newFollowUpRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "overdue", "pending"}).
			AddRow(20, 12, 3, 5))
	mock.ExpectQuery("SELECT action, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"action", "count"}).
			AddRow("Status updated to contacted", 8))

	stats, err := repo.Statistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 20, stats.Total)
	assert.Equal(t, 3, stats.Overdue)
	require.Len(t, stats.ByAction, 1)
	assert.Equal(t, "Status updated to contacted", stats.ByAction[0].Name)
}
