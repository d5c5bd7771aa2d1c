package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
	"github.com/chiral-robotics/chiral-backend/internal/infra/events"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) ([]*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, filters entity.LeadFilters) (int, error) {
	args := m.Called(ctx, filters)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id int64, fields map[string]any) (*entity.Lead, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id int64, status string, assignedTo *string) (*entity.Lead, error) {
	args := m.Called(ctx, id, status, assignedTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Statistics(ctx context.Context, period string) (*entity.LeadStatistics, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadStatistics), args.Error(1)
}

// MockFollowUpRepository
type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowUpRepository) FindByID(ctx context.Context, id int64) (*entity.FollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) FindByLeadID(ctx context.Context, leadID int64) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) FindPending(ctx context.Context) ([]*entity.FollowUp, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) FindUpcoming(ctx context.Context, withinDays int) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) Complete(ctx context.Context, id int64, notes *string) (*entity.FollowUp, error) {
	args := m.Called(ctx, id, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) Update(ctx context.Context, id int64, fields map[string]any) (*entity.FollowUp, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowUpRepository) Statistics(ctx context.Context) (*entity.FollowUpStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUpStatistics), args.Error(1)
}

// MockEmailQueueRepository
type MockEmailQueueRepository struct {
	mock.Mock
}

func (m *MockEmailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockEmailQueueRepository) FindByID(ctx context.Context, id int64) (*entity.EmailJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailJob), args.Error(1)
}

func (m *MockEmailQueueRepository) FindPending(ctx context.Context, maxAttempts int) ([]*entity.EmailJob, error) {
	args := m.Called(ctx, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.EmailJob), args.Error(1)
}

func (m *MockEmailQueueRepository) MarkSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailQueueRepository) MarkFailed(ctx context.Context, id int64, errText string) error {
	args := m.Called(ctx, id, errText)
	return args.Error(0)
}

func (m *MockEmailQueueRepository) UpdateStatus(ctx context.Context, id int64, status string, errText *string, sentAt *time.Time) error {
	args := m.Called(ctx, id, status, errText, sentAt)
	return args.Error(0)
}

func (m *MockEmailQueueRepository) Statistics(ctx context.Context) (*entity.EmailQueueStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailQueueStatistics), args.Error(1)
}

// MockBroadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) PublishLeadCreated(ctx context.Context, event events.LeadCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
