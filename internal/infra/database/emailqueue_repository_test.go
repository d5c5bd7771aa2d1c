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

func newEmailQueueRepo(t *testing.T) (*EmailQueueRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEmailQueueRepository(db), mock
}

var emailJobCols = []string{
	"id", "lead_id", "recipient", "subject", "template", "data",
	"status", "attempts", "last_attempt", "error", "sent_at", "created_at",
}

func TestEmailQueueCreateSerializesPayload(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	leadID := int64(42)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO email_queue")).
		WithArgs(&leadID, "sales@chiral-robotics.com", "New Demo Request: Alpine Dynamics AG",
			entity.TemplateLeadNotification, `{"companyName":"Alpine Dynamics AG"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "attempts", "created_at"}).
			AddRow(1, "pending", 0, time.Now()))

	job := &entity.EmailJob{
		LeadID:    &leadID,
		Recipient: "sales@chiral-robotics.com",
		Subject:   "New Demo Request: Alpine Dynamics AG",
		Template:  entity.TemplateLeadNotification,
		Data:      map[string]any{"companyName": "Alpine Dynamics AG"},
	}

	err := repo.Create(context.Background(), job)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), job.ID)
	assert.Equal(t, entity.EmailStatusPending, job.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPendingAppliesCoolDownAndCeiling(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	now := time.Now()
	mock.ExpectQuery(`status = 'pending'\s*AND attempts < \$1\s*AND \(last_attempt IS NULL OR last_attempt <= NOW\(\) - INTERVAL '5 minutes'\)`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(emailJobCols).
			AddRow(1, nil, "a@example.com", "Subject", "welcome", `{"contactPerson":"Lena"}`,
				"pending", 0, nil, nil, nil, now).
			AddRow(2, nil, "b@example.com", "Subject", "welcome", nil,
				"pending", 2, now.Add(-10*time.Minute), "smtp timeout", nil, now))

	jobs, err := repo.FindPending(context.Background(), 3)

	assert.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Lena", jobs[0].Data["contactPerson"])
	assert.Equal(t, 2, jobs[1].Attempts)
	assert.NotNil(t, jobs[1].LastAttempt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPendingToleratesCorruptPayload(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	mock.ExpectQuery("FROM email_queue").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(emailJobCols).
			AddRow(1, nil, "a@example.com", "Subject", "welcome", `{broken json`,
				"pending", 0, nil, nil, nil, time.Now()))

	jobs, err := repo.FindPending(context.Background(), 3)

	assert.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Empty(t, jobs[0].Data)
}

func TestMarkSentBumpsAttempts(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	mock.ExpectExec(`SET status = 'sent',\s*sent_at = NOW\(\),\s*attempts = attempts \+ 1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailedRecordsErrorAndBumpsAttempts(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	mock.ExpectExec(`SET status = 'failed',\s*error = \$1,\s*attempts = attempts \+ 1`).
		WithArgs("mailbox unavailable", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkFailed(context.Background(), 1, "mailbox unavailable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusKeepsJobPendingForRetry(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	errText := "smtp timeout"
	mock.ExpectExec(`SET status = \$1,\s*error = \$2,\s*sent_at = \$3,\s*attempts = attempts \+ 1`).
		WithArgs(entity.EmailStatusPending, &errText, nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 1, entity.EmailStatusPending, &errText, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailQueueStatistics(t *testing.T) {
	repo, mock := newEmailQueueRepo(t)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("sent", 40).
			AddRow("failed", 2))
	mock.ExpectQuery("INTERVAL '24 hours'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("INTERVAL '7 days'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	stats, err := repo.Statistics(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.ByStatus["pending"])
	assert.Equal(t, 12, stats.Last24h)
	assert.Equal(t, 2, stats.FailedLastWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
