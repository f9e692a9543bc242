package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sizecalc/sizing-api/internal/store"
)

const maxChartWindowDays = 365

// AdminStats is the dashboard summary. Each field is an independent count;
// there is no cross-field transactional consistency and none is needed.
type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	RecentUsers7d      int `json:"recent_users_7d"`
	TotalLogins        int `json:"total_logins"`
	TotalRegistrations int `json:"total_registrations"`
	RecentActivity24h  int `json:"recent_activity_24h"`
}

// AdminUsers lists every account, password hashes excluded.
func (s *Server) AdminUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// AdminActivity returns the newest activity events across all accounts.
func (s *Server) AdminActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	records, err := s.activity.ListAll(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// AdminStats assembles the dashboard counters.
func (s *Server) AdminStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	now := time.Now().UTC()

	stats := AdminStats{}
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return err
	}
	if stats.RecentUsers7d, err = s.users.CountCreatedSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return err
	}
	if stats.TotalLogins, err = s.activity.CountByType(ctx, store.ActivityLogin); err != nil {
		return err
	}
	if stats.TotalRegistrations, err = s.activity.CountByType(ctx, store.ActivityRegister); err != nil {
		return err
	}
	if stats.RecentActivity24h, err = s.activity.CountSince(ctx, now.Add(-24*time.Hour)); err != nil {
		return err
	}

	return c.JSON(stats)
}

// AdminChartSignups returns the dense daily registration series.
func (s *Server) AdminChartSignups(c *fiber.Ctx) error {
	series, err := s.activity.DailyCounts(c.UserContext(), store.ActivityRegister, chartWindow(c))
	if err != nil {
		return err
	}
	return c.JSON(series)
}

// AdminChartLogins returns the dense daily login series.
func (s *Server) AdminChartLogins(c *fiber.Ctx) error {
	series, err := s.activity.DailyCounts(c.UserContext(), store.ActivityLogin, chartWindow(c))
	if err != nil {
		return err
	}
	return c.JSON(series)
}

// AdminChartReports returns the dense daily report-generation series.
func (s *Server) AdminChartReports(c *fiber.Ctx) error {
	series, err := s.reports.DailyCounts(c.UserContext(), chartWindow(c))
	if err != nil {
		return err
	}
	return c.JSON(series)
}

// AdminTopReportAuthors returns the five heaviest report generators.
func (s *Server) AdminTopReportAuthors(c *fiber.Ctx) error {
	authors, err := s.reports.TopAuthors(c.UserContext(), 5)
	if err != nil {
		return err
	}
	return c.JSON(authors)
}

func chartWindow(c *fiber.Ctx) int {
	days := c.QueryInt("days", 7)
	if days < 0 {
		days = 0
	}
	if days > maxChartWindowDays {
		days = maxChartWindowDays
	}
	return days
}
