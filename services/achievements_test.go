package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmetric/ecotracker/models"
)

type fakeLedger struct {
	catalog   []models.Achievement
	grants    map[uint]map[uint]bool
	failOn    map[uint]error
	insertLog []uint
}

func newFakeLedger(catalog ...models.Achievement) *fakeLedger {
	return &fakeLedger{
		catalog: catalog,
		grants:  map[uint]map[uint]bool{},
		failOn:  map[uint]error{},
	}
}

func (f *fakeLedger) ListGrants(userID uint) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	for aid := range f.grants[userID] {
		out = append(out, models.UserAchievement{UserID: userID, AchievementID: aid})
	}
	return out, nil
}

func (f *fakeLedger) UnearnedAchievements(userID uint) ([]models.Achievement, error) {
	var out []models.Achievement
	for _, a := range f.catalog {
		if !f.grants[userID][a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeLedger) InsertGrantIfAbsent(userID, achievementID uint) (bool, error) {
	f.insertLog = append(f.insertLog, achievementID)
	if err := f.failOn[achievementID]; err != nil {
		return false, err
	}
	if f.grants[userID] == nil {
		f.grants[userID] = map[uint]bool{}
	}
	if f.grants[userID][achievementID] {
		return false, nil
	}
	f.grants[userID][achievementID] = true
	return true, nil
}

func firstSteps() models.Achievement {
	return models.Achievement{ID: 1, Name: "First Steps", RequirementType: models.RequirementActivitiesCount, RequirementValue: 1}
}

func weekWarrior() models.Achievement {
	return models.Achievement{ID: 2, Name: "Week Warrior", RequirementType: models.RequirementDailyStreak, RequirementValue: 7}
}

func carbonSaver() models.Achievement {
	return models.Achievement{ID: 3, Name: "Carbon Saver", RequirementType: models.RequirementCarbonSaved, RequirementValue: 50}
}

func evaluatorWith(store ActivityStore, ledger AchievementLedger) *AchievementEvaluator {
	agg := NewStatsAggregator(store)
	agg.now = fixedNow
	return NewAchievementEvaluator(agg, ledger)
}

func TestCheckGrantsFirstActivity(t *testing.T) {
	store := &fakeActivityStore{activities: 1, activeDays: 1, dates: []string{day(t, 0)}}
	ledger := newFakeLedger(firstSteps(), weekWarrior())

	granted, err := evaluatorWith(store, ledger).Check(1)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "First Steps", granted[0].Name)
}

func TestCheckIsIdempotent(t *testing.T) {
	store := &fakeActivityStore{activities: 3, activeDays: 3, dates: []string{day(t, 0)}}
	ledger := newFakeLedger(firstSteps())
	eval := evaluatorWith(store, ledger)

	first, err := eval.Check(1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := eval.Check(1)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestCheckStreakThreshold(t *testing.T) {
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = day(t, -i)
	}
	store := &fakeActivityStore{activities: 7, activeDays: 7, dates: dates}
	ledger := newFakeLedger(weekWarrior())

	granted, err := evaluatorWith(store, ledger).Check(1)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "Week Warrior", granted[0].Name)
}

func TestCheckStreakBelowThreshold(t *testing.T) {
	store := &fakeActivityStore{
		activities: 6,
		activeDays: 6,
		dates:      []string{day(t, 0), day(t, -1), day(t, -2), day(t, -3), day(t, -4), day(t, -5)},
	}
	ledger := newFakeLedger(weekWarrior())

	granted, err := evaluatorWith(store, ledger).Check(1)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestCheckUnknownRequirementTypeFailsClosed(t *testing.T) {
	store := &fakeActivityStore{activities: 100, activeDays: 100, dates: []string{day(t, 0)}}
	ledger := newFakeLedger(models.Achievement{
		ID: 9, Name: "Mystery", RequirementType: "lifetime_offsets", RequirementValue: 1,
	})

	granted, err := evaluatorWith(store, ledger).Check(1)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestCheckContinuesPastInsertFailure(t *testing.T) {
	store := &fakeActivityStore{activities: 2, activeDays: 2, dates: []string{day(t, 0)}}
	ledger := newFakeLedger(firstSteps(), carbonSaver())
	ledger.failOn[firstSteps().ID] = errors.New("deadlock")

	granted, err := evaluatorWith(store, ledger).Check(1)
	require.NoError(t, err)
	// carbon saved: 2 days active floors to 1 month -> 100kg baseline, 0 logged
	require.Len(t, granted, 1)
	assert.Equal(t, "Carbon Saver", granted[0].Name)
	assert.Equal(t, []uint{firstSteps().ID, carbonSaver().ID}, ledger.insertLog)
}

func TestSavedCarbonBaseline(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want float64
	}{
		{"no history floors to one month", Snapshot{DaysActive: 0, TotalCarbon: 0}, 100},
		{"below a month still one baseline", Snapshot{DaysActive: 10, TotalCarbon: 40}, 60},
		{"two months of history", Snapshot{DaysActive: 60, TotalCarbon: 150}, 50},
		{"never negative", Snapshot{DaysActive: 10, TotalCarbon: 500}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SavedCarbon(tt.snap), 1e-9)
		})
	}
}
