package store

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Default retention horizons. Activity and report logs keep a year of
// history for the admin dashboards; chat transcripts age out faster.
const (
	DefaultActivityRetention = 365 * 24 * time.Hour
	DefaultReportRetention   = 365 * 24 * time.Hour
	DefaultChatRetention     = 90 * 24 * time.Hour
)

// Sweeper purges append-only collections past their retention horizon on a
// daily schedule. Purge failures are logged and retried on the next run;
// they never affect serving.
type Sweeper struct {
	cron       *cron.Cron
	logger     logrus.FieldLogger
	activities *Activities
	reports    *Reports
	chats      *ChatMessages

	activityRetention time.Duration
	reportRetention   time.Duration
	chatRetention     time.Duration
}

func NewSweeper(activities *Activities, reports *Reports, chats *ChatMessages, logger logrus.FieldLogger) *Sweeper {
	return &Sweeper{
		cron:              cron.New(),
		logger:            logger,
		activities:        activities,
		reports:           reports,
		chats:             chats,
		activityRetention: DefaultActivityRetention,
		reportRetention:   DefaultReportRetention,
		chatRetention:     DefaultChatRetention,
	}
}

// WithRetention overrides the horizons. Zero values keep the defaults.
func (s *Sweeper) WithRetention(activity, report, chat time.Duration) *Sweeper {
	if activity > 0 {
		s.activityRetention = activity
	}
	if report > 0 {
		s.reportRetention = report
	}
	if chat > 0 {
		s.chatRetention = chat
	}
	return s
}

// Start schedules the daily sweep. Returns an error only when the schedule
// expression cannot be parsed, which would be a programming error.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@daily", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("retention sweeper started")
	return nil
}

// Sweep runs one purge pass across all aged collections.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()

	s.purge("user_activities", func() (int64, error) {
		return s.activities.PurgeOlderThan(ctx, now.Add(-s.activityRetention))
	})
	s.purge("report_logs", func() (int64, error) {
		return s.reports.PurgeOlderThan(ctx, now.Add(-s.reportRetention))
	})
	s.purge("chat_messages", func() (int64, error) {
		return s.chats.PurgeOlderThan(ctx, now.Add(-s.chatRetention))
	})
}

func (s *Sweeper) purge(collection string, fn func() (int64, error)) {
	n, err := fn()
	if err != nil {
		s.logger.WithError(err).WithField("collection", collection).Warn("retention purge failed")
		return
	}
	if n > 0 {
		s.logger.WithFields(logrus.Fields{
			"collection": collection,
			"purged":     n,
		}).Info("retention purge complete")
	}
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("retention sweeper stopped")
}
