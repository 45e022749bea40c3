package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"bizdesk/internal/common"
)

// AdminNotifier is the façade business operations call to surface
// admin-relevant events. Every method is fire and forget: a notification
// failure is logged and swallowed so it can never abort the business
// operation that triggered it.
type AdminNotifier struct {
	service NotificationService
}

func NewAdminNotifier(service NotificationService) *AdminNotifier {
	return &AdminNotifier{service: service}
}

func (a *AdminNotifier) NotifyNewUserRegistration(ctx context.Context, userID uint64, name, email, role string) {
	a.emit(ctx, CreateNotification{
		Type:     common.NewUserType,
		Title:    "New user registration",
		Message:  fmt.Sprintf("%s (%s) registered with role %s", name, email, role),
		Priority: common.PriorityLow,
		Target:   common.RoleTarget(common.RoleAdmin),
		Related:  &common.RelatedEntity{ID: strconv.FormatUint(userID, 10), Type: "user"},
	})
}

func (a *AdminNotifier) NotifyFirstLogin(ctx context.Context, userID uint64, name string, at time.Time) {
	a.emit(ctx, CreateNotification{
		Type:     common.FirstLoginType,
		Title:    "First login",
		Message:  fmt.Sprintf("%s logged in for the first time at %s", name, at.Format("2006-01-02 15:04")),
		Priority: common.PriorityLow,
		Target:   common.RoleTarget(common.RoleAdmin),
		Related:  &common.RelatedEntity{ID: strconv.FormatUint(userID, 10), Type: "user"},
	})
}

func (a *AdminNotifier) NotifyNewBudgetRequest(ctx context.Context, budgetID uint64, clientName, title string) {
	a.emit(ctx, CreateNotification{
		Type:     common.BudgetPendingType,
		Title:    "New budget request",
		Message:  fmt.Sprintf("Client %s requested budget %q", clientName, title),
		Priority: common.PriorityHigh,
		Target:   common.RoleTarget(common.RoleAdmin),
		Related:  &common.RelatedEntity{ID: strconv.FormatUint(budgetID, 10), Type: "budget"},
	})
}

func (a *AdminNotifier) NotifySystemError(ctx context.Context, component string, cause error) {
	a.emit(ctx, CreateNotification{
		Type:     common.SystemErrorType,
		Title:    "System error",
		Message:  fmt.Sprintf("Component %s reported an error: %v", component, cause),
		Priority: common.PriorityHigh,
		Target:   common.RoleTarget(common.RoleAdmin),
	})
}

func (a *AdminNotifier) NotifyUnusualActivity(ctx context.Context, userID uint64, description string) {
	a.emit(ctx, CreateNotification{
		Type:     common.UnusualActivityType,
		Title:    "Unusual activity",
		Message:  fmt.Sprintf("Unusual activity for user %d: %s", userID, description),
		Priority: common.PriorityMedium,
		Target:   common.RoleTarget(common.RoleAdmin),
		Related:  &common.RelatedEntity{ID: strconv.FormatUint(userID, 10), Type: "user"},
	})
}

func (a *AdminNotifier) emit(ctx context.Context, input CreateNotification) {
	if _, err := a.service.Create(ctx, input); err != nil {
		log.Printf("Admin notification %s failed: %v", input.Type, err)
	}
}
