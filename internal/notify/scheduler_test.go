package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bizdesk/internal/common"
	"bizdesk/internal/config"
	"bizdesk/internal/dbmysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Create(ctx context.Context, input CreateNotification) (*dbmysql.Notification, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, userID uint64, role string, page, size int) (*Page, error) {
	args := m.Called(ctx, userID, role, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Page), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uint64, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockNotificationService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationService) Stats(ctx context.Context, userID uint64, role string) (*Stats, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountUsersCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountDistinctLoginUsersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountBudgetsCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountClients(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func schedulerConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{
			DailyHour:     23,
			WeeklyWeekday: int(time.Sunday),
			WeeklyHour:    23,
			MonthlyDay:    1,
			MonthlyHour:   6,
			Enabled:       true,
		},
	}
}

func TestStatsScheduler_RunDaily(t *testing.T) {
	mockService := &MockNotificationService{}
	mockStats := &MockStatsRepository{}
	scheduler := NewStatsScheduler(mockService, mockStats, schedulerConfig())

	mockStats.On("CountUsersCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	mockStats.On("CountDistinctLoginUsersBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(5), nil)
	mockStats.On("CountBudgetsCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(2), nil)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(input CreateNotification) bool {
		role, ok := input.Target.Role()
		return input.Type == common.DailyStatsType &&
			input.Priority == common.PriorityMedium &&
			ok && role == common.RoleAdmin &&
			strings.Contains(input.Message, "3 new user registrations") &&
			strings.Contains(input.Message, "5 users logged in") &&
			strings.Contains(input.Message, "2 new budget requests")
	})).Return(&dbmysql.Notification{ID: "n1"}, nil)

	require.NoError(t, scheduler.RunDaily(context.Background()))

	mockService.AssertNumberOfCalls(t, "Create", 1)
	mockService.AssertExpectations(t)
	mockStats.AssertExpectations(t)
}

func TestStatsScheduler_RunWeekly(t *testing.T) {
	mockService := &MockNotificationService{}
	mockStats := &MockStatsRepository{}
	scheduler := NewStatsScheduler(mockService, mockStats, schedulerConfig())

	mockStats.On("CountUsersCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(10), nil)
	mockStats.On("CountDistinctLoginUsersBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(20), nil)
	mockStats.On("CountBudgetsCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(4), nil)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(input CreateNotification) bool {
		return input.Type == common.WeeklyStatsType && input.Priority == common.PriorityMedium
	})).Return(&dbmysql.Notification{ID: "n1"}, nil)

	require.NoError(t, scheduler.RunWeekly(context.Background()))
	mockService.AssertExpectations(t)
}

func TestStatsScheduler_RunMonthly(t *testing.T) {
	mockService := &MockNotificationService{}
	mockStats := &MockStatsRepository{}
	scheduler := NewStatsScheduler(mockService, mockStats, schedulerConfig())

	mockStats.On("CountUsersCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(30), nil)
	mockStats.On("CountDistinctLoginUsersBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(55), nil)
	mockStats.On("CountBudgetsCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(12), nil)
	mockStats.On("CountUsers", mock.Anything).Return(int64(400), nil)
	mockStats.On("CountClients", mock.Anything).Return(int64(90), nil)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(input CreateNotification) bool {
		return input.Type == common.MonthlyStatsType &&
			input.Priority == common.PriorityHigh &&
			strings.Contains(input.Message, "400 users") &&
			strings.Contains(input.Message, "90 clients")
	})).Return(&dbmysql.Notification{ID: "n1"}, nil)

	require.NoError(t, scheduler.RunMonthly(context.Background()))
	mockService.AssertExpectations(t)
	mockStats.AssertExpectations(t)
}

func TestStatsScheduler_CollaboratorFailureAbortsRun(t *testing.T) {
	mockService := &MockNotificationService{}
	mockStats := &MockStatsRepository{}
	scheduler := NewStatsScheduler(mockService, mockStats, schedulerConfig())

	mockStats.On("CountUsersCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	mockStats.On("CountDistinctLoginUsersBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("login store down"))

	err := scheduler.RunDaily(context.Background())
	assert.Error(t, err)

	// A failed query produces no notification at all.
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStatsScheduler_StartDisabled(t *testing.T) {
	cfg := schedulerConfig()
	cfg.Scheduler.Enabled = false

	scheduler := NewStatsScheduler(&MockNotificationService{}, &MockStatsRepository{}, cfg)
	scheduler.Start()
	scheduler.Stop()
}

func TestStatsScheduler_StartStop(t *testing.T) {
	scheduler := NewStatsScheduler(&MockNotificationService{}, &MockStatsRepository{}, schedulerConfig())

	scheduler.Start()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestDailyWindow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 30, 0, 0, time.UTC)

	start, end := dailyWindow(now)

	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 14, 23, 59, 59, 0, time.UTC), end)
}

func TestWeeklyWindow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 30, 0, 0, time.UTC)

	start, end := weeklyWindow(now)

	assert.Equal(t, now.AddDate(0, 0, -7), start)
	assert.Equal(t, now, end)
}

func TestMonthlyWindow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 30, 0, 0, time.UTC)

	start, end := monthlyWindow(now)

	assert.Equal(t, time.Date(2025, time.February, 14, 15, 30, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)
}

func TestNextDaily(t *testing.T) {
	scheduler := NewStatsScheduler(&MockNotificationService{}, &MockStatsRepository{}, schedulerConfig())

	t.Run("before today's firing", func(t *testing.T) {
		now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.March, 14, 23, 0, 0, 0, time.UTC), scheduler.nextDaily(now))
	})

	t.Run("after today's firing", func(t *testing.T) {
		now := time.Date(2025, time.March, 14, 23, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.March, 15, 23, 0, 0, 0, time.UTC), scheduler.nextDaily(now))
	})
}

func TestNextWeekly(t *testing.T) {
	scheduler := NewStatsScheduler(&MockNotificationService{}, &MockStatsRepository{}, schedulerConfig())

	// 2025-03-14 is a Friday; the configured firing is Sunday 23:00.
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	next := scheduler.nextWeekly(now)

	assert.Equal(t, time.Sunday, next.Weekday())
	assert.Equal(t, 23, next.Hour())
	assert.Equal(t, time.Date(2025, time.March, 16, 23, 0, 0, 0, time.UTC), next)

	// Sunday after the firing hour rolls to next week.
	now = time.Date(2025, time.March, 16, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 23, 23, 0, 0, 0, time.UTC), scheduler.nextWeekly(now))
}

func TestNextMonthly(t *testing.T) {
	scheduler := NewStatsScheduler(&MockNotificationService{}, &MockStatsRepository{}, schedulerConfig())

	t.Run("before this month's firing", func(t *testing.T) {
		now := time.Date(2025, time.February, 1, 3, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.February, 1, 6, 0, 0, 0, time.UTC), scheduler.nextMonthly(now))
	})

	t.Run("after this month's firing", func(t *testing.T) {
		now := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.March, 1, 6, 0, 0, 0, time.UTC), scheduler.nextMonthly(now))
	})

	t.Run("december rolls into january", func(t *testing.T) {
		now := time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC), scheduler.nextMonthly(now))
	})
}
