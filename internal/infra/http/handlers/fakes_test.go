package handlers

import (
	"context"
	"time"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
)

// Function-backed fakes. A nil function means "not expected in this test"
// and panics loudly if called anyway.

type fakeLeadRepo struct {
	create       func(ctx context.Context, lead *entity.Lead) error
	findByID     func(ctx context.Context, id int64) (*entity.Lead, error)
	findAll      func(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error)
	count        func(ctx context.Context, filters entity.LeadFilters) (int, error)
	update       func(ctx context.Context, id int64, fields map[string]any) (*entity.Lead, error)
	updateStatus func(ctx context.Context, id int64, status string, assignedTo *string) (*entity.Lead, error)
	delete       func(ctx context.Context, id int64) (bool, error)
	statistics   func(ctx context.Context, period string) (*entity.LeadStatistics, error)
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	return f.create(ctx, lead)
}

func (f *fakeLeadRepo) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	return f.findByID(ctx, id)
}

func (f *fakeLeadRepo) FindByEmail(ctx context.Context, email string) ([]*entity.Lead, error) {
	return nil, nil
}

func (f *fakeLeadRepo) FindAll(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	return f.findAll(ctx, filters)
}

func (f *fakeLeadRepo) Count(ctx context.Context, filters entity.LeadFilters) (int, error) {
	return f.count(ctx, filters)
}

func (f *fakeLeadRepo) Update(ctx context.Context, id int64, fields map[string]any) (*entity.Lead, error) {
	return f.update(ctx, id, fields)
}

func (f *fakeLeadRepo) UpdateStatus(ctx context.Context, id int64, status string, assignedTo *string) (*entity.Lead, error) {
	return f.updateStatus(ctx, id, status, assignedTo)
}

func (f *fakeLeadRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return f.delete(ctx, id)
}

func (f *fakeLeadRepo) Statistics(ctx context.Context, period string) (*entity.LeadStatistics, error) {
	return f.statistics(ctx, period)
}

type fakeFollowUpRepo struct {
	create       func(ctx context.Context, followUp *entity.FollowUp) error
	findByLeadID func(ctx context.Context, leadID int64) ([]*entity.FollowUp, error)
	findPending  func(ctx context.Context) ([]*entity.FollowUp, error)
	findUpcoming func(ctx context.Context, withinDays int) ([]*entity.FollowUp, error)
	complete     func(ctx context.Context, id int64, notes *string) (*entity.FollowUp, error)
}

func (f *fakeFollowUpRepo) Create(ctx context.Context, followUp *entity.FollowUp) error {
	return f.create(ctx, followUp)
}

func (f *fakeFollowUpRepo) FindByID(ctx context.Context, id int64) (*entity.FollowUp, error) {
	return nil, entity.ErrNotFound
}

func (f *fakeFollowUpRepo) FindByLeadID(ctx context.Context, leadID int64) ([]*entity.FollowUp, error) {
	return f.findByLeadID(ctx, leadID)
}

func (f *fakeFollowUpRepo) FindPending(ctx context.Context) ([]*entity.FollowUp, error) {
	return f.findPending(ctx)
}

func (f *fakeFollowUpRepo) FindUpcoming(ctx context.Context, withinDays int) ([]*entity.FollowUp, error) {
	return f.findUpcoming(ctx, withinDays)
}

func (f *fakeFollowUpRepo) Complete(ctx context.Context, id int64, notes *string) (*entity.FollowUp, error) {
	return f.complete(ctx, id, notes)
}

func (f *fakeFollowUpRepo) Update(ctx context.Context, id int64, fields map[string]any) (*entity.FollowUp, error) {
	return nil, entity.ErrNotFound
}

func (f *fakeFollowUpRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (f *fakeFollowUpRepo) Statistics(ctx context.Context) (*entity.FollowUpStatistics, error) {
	return &entity.FollowUpStatistics{}, nil
}

type fakeEmailQueueRepo struct {
	create     func(ctx context.Context, job *entity.EmailJob) error
	statistics func(ctx context.Context) (*entity.EmailQueueStatistics, error)
}

func (f *fakeEmailQueueRepo) Create(ctx context.Context, job *entity.EmailJob) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, job)
}

func (f *fakeEmailQueueRepo) FindByID(ctx context.Context, id int64) (*entity.EmailJob, error) {
	return nil, entity.ErrNotFound
}

func (f *fakeEmailQueueRepo) FindPending(ctx context.Context, maxAttempts int) ([]*entity.EmailJob, error) {
	return nil, nil
}

func (f *fakeEmailQueueRepo) MarkSent(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeEmailQueueRepo) MarkFailed(ctx context.Context, id int64, errText string) error {
	return nil
}

func (f *fakeEmailQueueRepo) UpdateStatus(ctx context.Context, id int64, status string, errText *string, sentAt *time.Time) error {
	return nil
}

func (f *fakeEmailQueueRepo) Statistics(ctx context.Context) (*entity.EmailQueueStatistics, error) {
	return f.statistics(ctx)
}
