package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/analytics"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"golang.org/x/sync/errgroup"
)

type AnalyticsServiceImpl struct {
	analytics.AnalyticsRepository
	loc *time.Location
	now func() time.Time
}

func NewAnalyticsService(repo analytics.AnalyticsRepository, loc *time.Location) analytics.AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsServiceImpl{AnalyticsRepository: repo, loc: loc, now: time.Now}
}

// EmployeeStats runs the four aggregate queries in parallel and joins them
// per employee in memory.
func (s *AnalyticsServiceImpl) EmployeeStats(ctx context.Context, caller identity.Caller) (analytics.AnalyticsResponse, error) {
	if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
		return analytics.AnalyticsResponse{}, err
	}

	now := s.now().In(s.loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)

	var (
		employees []analytics.Employee
		presence  map[string]analytics.AttendanceAggregate
		leaves    map[string]int
		tasks     map[string]analytics.TaskAggregate
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.ListEmployees(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		presence, err = s.AttendanceByStaff(gCtx, first.Format(attendance.DateLayout), last.Format(attendance.DateLayout))
		if err != nil {
			return fmt.Errorf("failed to aggregate attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		leaves, err = s.LeaveCountsByStaff(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count leaves: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		tasks, err = s.TaskCountsByStaff(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return analytics.AnalyticsResponse{}, err
	}

	stats := make([]analytics.EmployeeStatsResponse, 0, len(employees))
	for _, emp := range employees {
		att := presence[emp.ID]
		avg := 0.0
		if att.PresentDays > 0 {
			avg = math.Round(att.TotalMinutes/60/float64(att.PresentDays)*100) / 100
		}
		stats = append(stats, analytics.EmployeeStatsResponse{
			ID:             emp.ID,
			EmployeeID:     emp.EmployeeCode,
			Name:           emp.Name,
			PresentDays:    att.PresentDays,
			AvgHours:       avg,
			TotalLeaves:    leaves[emp.ID],
			TotalTasks:     tasks[emp.ID].Total,
			CompletedTasks: tasks[emp.ID].Completed,
		})
	}

	return analytics.AnalyticsResponse{Month: first.Format("2006-01"), EmployeeStats: stats}, nil
}
