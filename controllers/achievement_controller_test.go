package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/models"
	"github.com/greenmetric/ecotracker/services"
)

type stubActivityStore struct {
	activities int64
	carbon     float64
	activeDays int64
	dates      []string
}

func (s *stubActivityStore) CountActivities(userID uint) (int64, error) { return s.activities, nil }
func (s *stubActivityStore) SumCarbon(userID uint) (float64, error)     { return s.carbon, nil }
func (s *stubActivityStore) CountActiveDays(userID uint) (int64, error) { return s.activeDays, nil }
func (s *stubActivityStore) RecentActivityDates(userID uint, limit int) ([]string, error) {
	return s.dates, nil
}

type stubLedger struct {
	catalog []models.Achievement
	grants  map[uint]bool
}

func (s *stubLedger) ListGrants(userID uint) ([]models.UserAchievement, error) {
	return nil, nil
}

func (s *stubLedger) UnearnedAchievements(userID uint) ([]models.Achievement, error) {
	var out []models.Achievement
	for _, a := range s.catalog {
		if !s.grants[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubLedger) InsertGrantIfAbsent(userID, achievementID uint) (bool, error) {
	if s.grants == nil {
		s.grants = map[uint]bool{}
	}
	if s.grants[achievementID] {
		return false, nil
	}
	s.grants[achievementID] = true
	return true, nil
}

func checkRouter(store services.ActivityStore, ledger services.AchievementLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	evaluator := services.NewAchievementEvaluator(services.NewStatsAggregator(store), ledger)
	controller := NewAchievementController(nil, evaluator)

	r := gin.New()
	r.POST("/api/achievements/check", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, uint(1))
	}, controller.Check)
	return r
}

type checkResponse struct {
	Code int    `json:"code"`
	Data struct {
		NewAchievements []models.Achievement `json:"newAchievements"`
		Message         string               `json:"message"`
	} `json:"data"`
}

func doCheck(t *testing.T, r *gin.Engine) checkResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/achievements/check", nil)
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCheckEndpointGrantsAndReportsCount(t *testing.T) {
	store := &stubActivityStore{
		activities: 1,
		activeDays: 1,
		dates:      []string{time.Now().Format(services.DateLayout)},
	}
	ledger := &stubLedger{catalog: []models.Achievement{
		{ID: 1, Name: "First Steps", RequirementType: models.RequirementActivitiesCount, RequirementValue: 1},
		{ID: 2, Name: "Week Warrior", RequirementType: models.RequirementDailyStreak, RequirementValue: 7},
	}}

	resp := doCheck(t, checkRouter(store, ledger))
	require.Len(t, resp.Data.NewAchievements, 1)
	assert.Equal(t, "First Steps", resp.Data.NewAchievements[0].Name)
	assert.Equal(t, "Congratulations! You earned 1 new achievement(s)!", resp.Data.Message)
}

func TestCheckEndpointSecondCallEarnsNothing(t *testing.T) {
	store := &stubActivityStore{
		activities: 1,
		activeDays: 1,
		dates:      []string{time.Now().Format(services.DateLayout)},
	}
	ledger := &stubLedger{catalog: []models.Achievement{
		{ID: 1, Name: "First Steps", RequirementType: models.RequirementActivitiesCount, RequirementValue: 1},
	}}
	r := checkRouter(store, ledger)

	first := doCheck(t, r)
	require.Len(t, first.Data.NewAchievements, 1)

	second := doCheck(t, r)
	assert.Empty(t, second.Data.NewAchievements)
	assert.Equal(t, "No new achievements this time. Keep going!", second.Data.Message)
}

func TestCheckEndpointRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	evaluator := services.NewAchievementEvaluator(
		services.NewStatsAggregator(&stubActivityStore{}), &stubLedger{})
	controller := NewAchievementController(nil, evaluator)

	r := gin.New()
	r.POST("/api/achievements/check", controller.Check)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/achievements/check", nil)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
