package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bizdesk/internal/common"
	"bizdesk/internal/config"
)

const windowFormat = "2006-01-02 15:04"

// StatsScheduler runs the three calendar-scheduled aggregation jobs. Each
// schedule is an independent timer goroutine; a failed run aborts only
// itself and the timer simply waits for the next firing. The Run* methods
// are public so operators can trigger any run on demand with identical
// semantics.
type StatsScheduler struct {
	service NotificationService
	stats   StatsRepository
	cfg     config.SchedulerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewStatsScheduler(service NotificationService, stats StatsRepository, cfg *config.Config) *StatsScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &StatsScheduler{
		service: service,
		stats:   stats,
		cfg:     cfg.Scheduler,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *StatsScheduler) Start() {
	if !s.cfg.Enabled {
		log.Println("Stats scheduler disabled")
		return
	}

	s.run("daily", s.nextDaily, s.RunDaily)
	s.run("weekly", s.nextWeekly, s.RunWeekly)
	s.run("monthly", s.nextMonthly, s.RunMonthly)

	log.Printf("Stats scheduler started: daily %02d:00, weekly %s %02d:00, monthly day %d %02d:00",
		s.cfg.DailyHour, time.Weekday(s.cfg.WeeklyWeekday), s.cfg.WeeklyHour,
		s.cfg.MonthlyDay, s.cfg.MonthlyHour)
}

func (s *StatsScheduler) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		log.Println("Stats scheduler stopped")
	})
}

func (s *StatsScheduler) run(name string, next func(time.Time) time.Time, fire func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			timer := time.NewTimer(time.Until(next(time.Now())))
			select {
			case <-timer.C:
				if err := fire(s.ctx); err != nil {
					log.Printf("%s stats run failed: %v", name, err)
				}
			case <-s.ctx.Done():
				timer.Stop()
				return
			}
		}
	}()
}

// RunDaily aggregates today's activity and publishes it to administrators.
func (s *StatsScheduler) RunDaily(ctx context.Context) error {
	start, end := dailyWindow(time.Now())

	newUsers, logins, budgets, err := s.collectWindowCounts(ctx, start, end)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"Activity between %s and %s: %d new user registrations, %d users logged in, %d new budget requests.",
		start.Format(windowFormat), end.Format(windowFormat), newUsers, logins, budgets)

	_, err = s.service.Create(ctx, CreateNotification{
		Type:     common.DailyStatsType,
		Title:    "Daily activity summary",
		Message:  message,
		Priority: common.PriorityMedium,
		Target:   common.RoleTarget(common.RoleAdmin),
	})
	return err
}

// RunWeekly aggregates the trailing seven days.
func (s *StatsScheduler) RunWeekly(ctx context.Context) error {
	start, end := weeklyWindow(time.Now())

	newUsers, logins, budgets, err := s.collectWindowCounts(ctx, start, end)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"Activity between %s and %s: %d new user registrations, %d users logged in, %d new budget requests.",
		start.Format(windowFormat), end.Format(windowFormat), newUsers, logins, budgets)

	_, err = s.service.Create(ctx, CreateNotification{
		Type:     common.WeeklyStatsType,
		Title:    "Weekly activity summary",
		Message:  message,
		Priority: common.PriorityMedium,
		Target:   common.RoleTarget(common.RoleAdmin),
	})
	return err
}

// RunMonthly aggregates the trailing calendar month and additionally reports
// the current account totals.
func (s *StatsScheduler) RunMonthly(ctx context.Context) error {
	start, end := monthlyWindow(time.Now())

	newUsers, logins, budgets, err := s.collectWindowCounts(ctx, start, end)
	if err != nil {
		return err
	}

	totalUsers, err := s.stats.CountUsers(ctx)
	if err != nil {
		return err
	}

	totalClients, err := s.stats.CountClients(ctx)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"Activity between %s and %s: %d new user registrations, %d users logged in, %d new budget requests. Totals: %d users, %d clients.",
		start.Format(windowFormat), end.Format(windowFormat), newUsers, logins, budgets, totalUsers, totalClients)

	_, err = s.service.Create(ctx, CreateNotification{
		Type:     common.MonthlyStatsType,
		Title:    "Monthly activity summary",
		Message:  message,
		Priority: common.PriorityHigh,
		Target:   common.RoleTarget(common.RoleAdmin),
	})
	return err
}

// collectWindowCounts gathers every collaborator count before anything is
// written, so a failed query produces no notification at all.
func (s *StatsScheduler) collectWindowCounts(ctx context.Context, start, end time.Time) (newUsers, logins, budgets int64, err error) {
	newUsers, err = s.stats.CountUsersCreatedBetween(ctx, start, end)
	if err != nil {
		return 0, 0, 0, err
	}

	logins, err = s.stats.CountDistinctLoginUsersBetween(ctx, start, end)
	if err != nil {
		return 0, 0, 0, err
	}

	budgets, err = s.stats.CountBudgetsCreatedBetween(ctx, start, end)
	if err != nil {
		return 0, 0, 0, err
	}

	return newUsers, logins, budgets, nil
}

func dailyWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24*time.Hour - time.Second)
}

func weeklyWindow(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -7), now
}

func monthlyWindow(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, -1, 0), now
}

func (s *StatsScheduler) nextDaily(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.DailyHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *StatsScheduler) nextWeekly(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.WeeklyHour, 0, 0, 0, now.Location())
	days := (int(time.Weekday(s.cfg.WeeklyWeekday)) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

func (s *StatsScheduler) nextMonthly(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), s.cfg.MonthlyDay, s.cfg.MonthlyHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month()+1, s.cfg.MonthlyDay, s.cfg.MonthlyHour, 0, 0, 0, now.Location())
	}
	return next
}
