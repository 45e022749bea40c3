package notify

import (
	"context"
	"errors"
	"fmt"

	"bizdesk/internal/common"
	"bizdesk/internal/dbmysql"

	"gorm.io/gorm"
)

// visibleClause is the visibility predicate shared by listing, counting and
// bulk updates: private notifications addressed to the caller, plus
// broadcasts for the caller's role.
const visibleClause = "(target_user_id = ? OR (target_user_id IS NULL AND target_role = ?))"

type NotificationRepository interface {
	Create(ctx context.Context, n *dbmysql.Notification) error
	ByID(ctx context.Context, id string) (*dbmysql.Notification, error)
	VisibleTo(ctx context.Context, userID uint64, role string, limit, offset int) ([]*dbmysql.Notification, error)
	CountVisible(ctx context.Context, userID uint64, role string) (int64, error)
	CountUnread(ctx context.Context, userID uint64, role string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID uint64, role string) error
	Delete(ctx context.Context, id string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *dbmysql.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ByID(ctx context.Context, id string) (*dbmysql.Notification, error) {
	var n dbmysql.Notification

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &n, nil
}

func (r *notificationRepository) VisibleTo(
	ctx context.Context,
	userID uint64,
	role string,
	limit, offset int,
) ([]*dbmysql.Notification, error) {
	var notifications []*dbmysql.Notification

	query := r.db.WithContext(ctx).
		Where(visibleClause, userID, role).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountVisible(ctx context.Context, userID uint64, role string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&dbmysql.Notification{}).
		Where(visibleClause, userID, role).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint64, role string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&dbmysql.Notification{}).
		Where("is_read = ?", false).
		Where(visibleClause, userID, role).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead flips the read flag. Marking an already-read notification is a
// no-op; only a missing row reports ErrNotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Already read rows affect nothing under MySQL; distinguish them
		// from a genuinely missing id.
		if _, err := r.ByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// MarkAllRead updates every visible notification in a single statement, so
// concurrent readers only ever see a point-in-time snapshot.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint64, role string) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Notification{}).
		Where("is_read = ?", false).
		Where(visibleClause, userID, role).
		Update("is_read", true).Error

	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&dbmysql.Notification{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}
