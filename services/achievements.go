package services

import (
	"math"

	"github.com/greenmetric/ecotracker/models"
	"github.com/greenmetric/ecotracker/utils"
)

// AchievementLedger is the persisted set of (user, achievement) grants.
// The engine only ever appends to it; no update or delete path exists.
type AchievementLedger interface {
	ListGrants(userID uint) ([]models.UserAchievement, error)
	// UnearnedAchievements returns catalog entries for which the user holds
	// no grant yet.
	UnearnedAchievements(userID uint) ([]models.Achievement, error)
	// InsertGrantIfAbsent atomically records a grant, returning true only
	// when the row was newly inserted. A duplicate insert is a no-op.
	InsertGrantIfAbsent(userID, achievementID uint) (bool, error)
}

// AchievementEvaluator compares stats snapshots against the catalog and
// records newly satisfied achievements.
type AchievementEvaluator struct {
	stats  *StatsAggregator
	ledger AchievementLedger
}

// NewAchievementEvaluator wires the evaluator to its collaborators.
func NewAchievementEvaluator(stats *StatsAggregator, ledger AchievementLedger) *AchievementEvaluator {
	return &AchievementEvaluator{stats: stats, ledger: ledger}
}

// Check evaluates all unearned achievements for the user and persists grants
// for those now satisfied, returning the newly granted definitions. Calling
// it again without new activity returns an empty slice: grants are unique per
// (user, achievement) and evaluation only considers unearned entries.
//
// A failed grant insert skips that candidate and moves on; achievements are
// additive and never transactional across the batch.
func (e *AchievementEvaluator) Check(userID uint) ([]models.Achievement, error) {
	snap, err := e.stats.Compute(userID)
	if err != nil {
		return nil, err
	}

	candidates, err := e.ledger.UnearnedAchievements(userID)
	if err != nil {
		return nil, err
	}

	granted := make([]models.Achievement, 0)
	for _, candidate := range candidates {
		if !satisfies(candidate, snap) {
			continue
		}

		inserted, err := e.ledger.InsertGrantIfAbsent(userID, candidate.ID)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("grant insert failed user=%d achievement=%d: %v", userID, candidate.ID, err)
			}
			continue
		}
		if inserted {
			granted = append(granted, candidate)
		}
	}

	return granted, nil
}

// satisfies reports whether the snapshot meets an achievement's requirement.
// Unknown requirement types fail closed.
func satisfies(a models.Achievement, snap Snapshot) bool {
	switch a.RequirementType {
	case models.RequirementActivitiesCount:
		return float64(snap.TotalActivities) >= a.RequirementValue
	case models.RequirementCarbonSaved:
		return SavedCarbon(snap) >= a.RequirementValue
	case models.RequirementDailyStreak:
		return float64(snap.CurrentStreak) >= a.RequirementValue
	default:
		return false
	}
}

// SavedCarbon estimates kg CO2 saved against a notional 100 kg/month average
// emitter. Months active are derived from days with logged activity, floored
// at one month, so sparse logging inflates apparent savings. The heuristic is
// preserved as-is from the product definition.
func SavedCarbon(snap Snapshot) float64 {
	monthsActive := math.Max(1, float64(snap.DaysActive)/30.0)
	baseline := monthsActive * 100
	return math.Max(0, baseline-snap.TotalCarbon)
}
