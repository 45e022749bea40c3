package notify

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/dbmysql"

	"gorm.io/gorm"
)

// StatsRepository exposes the collaborator count queries the scheduled
// aggregation runs depend on. The underlying tables are owned by the CRUD
// side of the backend; this layer only reads.
type StatsRepository interface {
	CountUsersCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountDistinctLoginUsersBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountBudgetsCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountUsersCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count new users: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountDistinctLoginUsersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&dbmysql.LoginRecord{}).
		Where("login_at BETWEEN ? AND ?", start, end).
		Distinct("user_id").
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count login users: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountBudgetsCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&dbmysql.Budget{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count new budgets: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (r *statsRepository) CountClients(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&dbmysql.Client{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}

	return count, nil
}
