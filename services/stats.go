package services

import "time"

// DateLayout is the calendar-date format used for activity dates everywhere
// in the service layer (DATE column, streak walk, API payloads).
const DateLayout = "2006-01-02"

// StreakWindowDays bounds the streak computation to the most recent distinct
// activity dates. Streaks longer than the window are undercounted; widening
// it is a product decision, not a bug fix.
const StreakWindowDays = 30

// Snapshot holds per-user aggregates derived from the activity log. It is
// recomputed on demand and never persisted.
type Snapshot struct {
	TotalActivities int64   `json:"total_activities"`
	TotalCarbon     float64 `json:"total_carbon"`
	DaysActive      int64   `json:"days_active"`
	CurrentStreak   int     `json:"current_streak"`
}

// ActivityStore is the read-only view of the activity log the aggregator
// needs. The engine never mutates the log.
type ActivityStore interface {
	CountActivities(userID uint) (int64, error)
	SumCarbon(userID uint) (float64, error)
	CountActiveDays(userID uint) (int64, error)
	// RecentActivityDates returns distinct activity dates (DateLayout strings)
	// for the user, newest first, at most limit entries.
	RecentActivityDates(userID uint, limit int) ([]string, error)
}

// StatsAggregator converts a user's raw activity rows into a Snapshot.
type StatsAggregator struct {
	store ActivityStore
	now   func() time.Time
}

// NewStatsAggregator creates an aggregator over the given store.
func NewStatsAggregator(store ActivityStore) *StatsAggregator {
	return &StatsAggregator{store: store, now: time.Now}
}

// Compute builds the stats snapshot for one user. A user with no activities
// yields the zero snapshot rather than an error.
func (s *StatsAggregator) Compute(userID uint) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.TotalActivities, err = s.store.CountActivities(userID); err != nil {
		return Snapshot{}, err
	}
	if snap.TotalCarbon, err = s.store.SumCarbon(userID); err != nil {
		return Snapshot{}, err
	}
	if snap.DaysActive, err = s.store.CountActiveDays(userID); err != nil {
		return Snapshot{}, err
	}

	dates, err := s.store.RecentActivityDates(userID, StreakWindowDays)
	if err != nil {
		return Snapshot{}, err
	}
	snap.CurrentStreak = currentStreak(dates, s.now())

	return snap, nil
}

// currentStreak counts consecutive calendar days with activity, walking
// backward from today. A day without activity breaks the walk immediately,
// so a user whose last activity was yesterday has a streak of zero.
func currentStreak(dates []string, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		seen[d] = struct{}{}
	}

	streak := 0
	day := today
	for i := 0; i < len(dates); i++ {
		if _, ok := seen[day.Format(DateLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
