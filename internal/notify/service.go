package notify

import (
	"context"
	"log"
	"time"

	"bizdesk/internal/common"
	"bizdesk/internal/dbmysql"

	"github.com/google/uuid"
)

// Pusher is the optional live delivery channel. A nil Pusher means clients
// obtain everything through the polling API; pushes are hints, never the
// authoritative path.
type Pusher interface {
	Push(n *dbmysql.Notification) error
}

// CreateNotification carries everything the router needs to persist and
// deliver one notification.
type CreateNotification struct {
	Type     common.NotificationType
	Title    string
	Message  string
	Priority common.Priority
	Target   common.Target
	Related  *common.RelatedEntity
	Metadata string
}

type Page struct {
	Items []*dbmysql.Notification `json:"items"`
	Page  int                     `json:"page"`
	Size  int                     `json:"size"`
	Total int64                   `json:"total"`
}

type Stats struct {
	Unread int64 `json:"unread"`
	Total  int64 `json:"total"`
}

type NotificationService interface {
	Create(ctx context.Context, input CreateNotification) (*dbmysql.Notification, error)
	List(ctx context.Context, userID uint64, role string, page, size int) (*Page, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID uint64, role string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID uint64, role string) (*Stats, error)
}

type notificationService struct {
	repo   NotificationRepository
	pusher Pusher
}

func NewNotificationService(repo NotificationRepository, pusher Pusher) NotificationService {
	return &notificationService{repo: repo, pusher: pusher}
}

func (s *notificationService) Create(ctx context.Context, input CreateNotification) (*dbmysql.Notification, error) {
	if err := common.ValidateNotification(input.Title, input.Message, input.Target); err != nil {
		return nil, err
	}
	if err := common.ValidatePriority(input.Priority); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = common.PriorityMedium
	}

	n := &dbmysql.Notification{
		ID:        uuid.NewString(),
		Type:      string(input.Type),
		Title:     input.Title,
		Message:   input.Message,
		Priority:  string(priority),
		Metadata:  input.Metadata,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if userID, ok := input.Target.UserID(); ok {
		n.TargetUserID = &userID
	} else if role, ok := input.Target.Role(); ok {
		n.TargetRole = &role
	}

	if input.Related != nil {
		n.RelatedEntityID = &input.Related.ID
		n.RelatedEntityType = &input.Related.Type
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	// Delivery is best effort: a failed or missing push never rolls back the
	// persisted row, clients fall back to polling.
	if s.pusher != nil {
		if err := s.pusher.Push(n); err != nil {
			log.Printf("Push delivery failed for notification %s: %v", n.ID, err)
		}
	}

	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uint64, role string, page, size int) (*Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	items, err := s.repo.VisibleTo(ctx, userID, role, size, page*size)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountVisible(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	return &Page{Items: items, Page: page, Size: size, Total: total}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint64, role string) error {
	return s.repo.MarkAllRead(ctx, userID, role)
}

func (s *notificationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *notificationService) Stats(ctx context.Context, userID uint64, role string) (*Stats, error) {
	unread, err := s.repo.CountUnread(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountVisible(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	return &Stats{Unread: unread, Total: total}, nil
}
