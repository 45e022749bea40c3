package common

type NotificationType string

const (
	NewUserType         NotificationType = "NEW_USER"
	FirstLoginType      NotificationType = "FIRST_LOGIN"
	BudgetPendingType   NotificationType = "BUDGET_PENDING"
	SystemErrorType     NotificationType = "SYSTEM_ERROR"
	UnusualActivityType NotificationType = "UNUSUAL_ACTIVITY"
	DailyStatsType      NotificationType = "DAILY_STATS"
	WeeklyStatsType     NotificationType = "WEEKLY_STATS"
	MonthlyStatsType    NotificationType = "MONTHLY_STATS"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RoleAdmin is the broadcast role every scheduler and admin-event
// notification is addressed to.
const RoleAdmin = "admin"

// Target is the addressing mode of a notification: either a single user or
// a role-wide broadcast. The zero Target addresses nobody and is rejected at
// creation, so a routable Target can only come from one of the constructors.
type Target struct {
	userID uint64
	role   string
	isUser bool
}

func UserTarget(userID uint64) Target {
	return Target{userID: userID, isUser: true}
}

func RoleTarget(role string) Target {
	return Target{role: role}
}

func (t Target) UserID() (uint64, bool) {
	if !t.isUser {
		return 0, false
	}
	return t.userID, true
}

func (t Target) Role() (string, bool) {
	if t.isUser || t.role == "" {
		return "", false
	}
	return t.role, true
}

func (t Target) IsZero() bool {
	return !t.isUser && t.role == ""
}

// RelatedEntity is an optional back-reference to the object that caused the
// notification (budget, user, ticket). Informational only, no integrity
// enforcement.
type RelatedEntity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
