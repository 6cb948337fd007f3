package controllers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/services"
	"github.com/greenmetric/ecotracker/utils"
)

// AIController serves Gemini-backed insight endpoints. Every endpoint
// degrades to a static fallback when the model output is unusable, so the
// API never fails just because the model rambled.
type AIController struct {
	db  *gorm.DB
	llm services.TextGenerator
}

// NewAIController creates an AIController. llm may be nil when no API key is
// configured; endpoints then answer 503.
func NewAIController(db *gorm.DB, llm services.TextGenerator) *AIController {
	return &AIController{db: db, llm: llm}
}

func (a *AIController) ready(ctx *gin.Context) bool {
	if a.llm == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, "ai features are not configured")
		return false
	}
	return true
}

type recentActivity struct {
	Description     string  `json:"description"`
	CarbonFootprint float64 `json:"carbon_footprint"`
	Date            string  `json:"date"`
	CategoryName    string  `json:"category_name"`
}

// AnalyzeFootprint summarizes the caller's last 20 activities through the model.
func (a *AIController) AnalyzeFootprint(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !a.ready(ctx) {
		return
	}

	var activities []recentActivity
	if err := a.db.Raw(`
		SELECT a.description,
		       a.carbon_footprint,
		       DATE_FORMAT(a.date, '%Y-%m-%d') AS date,
		       c.name AS category_name
		FROM activities a
		JOIN categories c ON a.category_id = c.id
		WHERE a.user_id = ?
		ORDER BY a.date DESC
		LIMIT 20`, userID).Scan(&activities).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load activities")
		return
	}

	totalCarbon := 0.0
	var lines strings.Builder
	for _, act := range activities {
		totalCarbon += act.CarbonFootprint
		fmt.Fprintf(&lines, "- %s: %s (%gkg CO₂) on %s\n",
			act.CategoryName, act.Description, act.CarbonFootprint, act.Date)
	}

	prompt := fmt.Sprintf(`Analyze this user's carbon footprint data and provide personalized insights:

Total Carbon Footprint: %.1f kg CO₂
Number of Activities: %d

Activities breakdown:
%s
Please provide:
1. A brief analysis of their carbon footprint patterns
2. Top 3 specific recommendations to reduce their carbon footprint
3. Positive reinforcement for good habits
4. One interesting fact about their environmental impact

Keep the response encouraging, actionable, and under 300 words. Use a friendly, motivational tone.`,
		totalCarbon, len(activities), lines.String())

	analysis, err := a.llm.GenerateText(ctx.Request.Context(), prompt)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to analyze carbon footprint")
		return
	}

	utils.Success(ctx, gin.H{
		"analysis":           analysis,
		"totalCarbon":        totalCarbon,
		"activitiesAnalyzed": len(activities),
	})
}

// ActivitySuggestion is one eco-friendly action idea.
type ActivitySuggestion struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	EstimatedSaving float64 `json:"estimatedSaving"`
	Difficulty      string  `json:"difficulty"`
	Category        string  `json:"category"`
}

var fallbackSuggestions = []ActivitySuggestion{
	{
		Title:           "Walk or bike instead of driving",
		Description:     "For trips under 3 miles, walking or biking can save significant emissions while improving your health.",
		EstimatedSaving: 2.4,
		Difficulty:      "easy",
		Category:        "transportation",
	},
}

// SuggestActivities asks the model for eco-friendly suggestions for a free
// text context, like "going to work".
func (a *AIController) SuggestActivities(ctx *gin.Context) {
	if _, ok := middleware.UserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !a.ready(ctx) {
		return
	}

	var req struct {
		Context string `json:"context"`
	}
	_ = ctx.ShouldBindJSON(&req)

	prompt := fmt.Sprintf(`I need eco-friendly activity suggestions for this context: "%s"

Please provide 5 specific, actionable suggestions that would reduce carbon footprint.
Format as a JSON array with objects containing:
- title: Brief title
- description: Detailed description
- estimatedSaving: Estimated CO₂ savings in kg
- difficulty: "easy", "medium", or "hard"
- category: "transportation", "energy", "food", "waste", or "shopping"

Focus on practical, achievable actions. Be specific with numbers and savings.`, req.Context)

	raw, err := a.llm.GenerateText(ctx.Request.Context(), prompt)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to generate suggestions")
		return
	}

	var suggestions []ActivitySuggestion
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &suggestions); err != nil || len(suggestions) == 0 {
		suggestions = fallbackSuggestions
	}

	utils.Success(ctx, gin.H{"suggestions": suggestions})
}

// CalculateCarbon estimates kg CO₂ for a described activity. Unparseable
// model output yields 0 rather than an error.
func (a *AIController) CalculateCarbon(ctx *gin.Context) {
	if _, ok := middleware.UserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !a.ready(ctx) {
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
		Category    string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "description is required")
		return
	}

	prompt := fmt.Sprintf(`Calculate the carbon footprint for this activity: "%s"
Category: %s

Based on standard carbon footprint calculations, estimate the CO₂ emissions in kilograms.
Consider factors like:
- Distance (if transportation)
- Energy consumption (if energy-related)
- Food production (if food-related)
- Manufacturing impact (if shopping)
- Waste processing (if waste-related)

Respond with ONLY a number (the kg CO₂ equivalent). No explanation, just the number.
If you cannot determine, respond with 0.`, req.Description, req.Category)

	raw, err := a.llm.GenerateText(ctx.Request.Context(), prompt)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to calculate carbon footprint")
		return
	}

	carbon, err := strconv.ParseFloat(strings.TrimSpace(stripCodeFence(raw)), 64)
	if err != nil || math.IsNaN(carbon) || math.IsInf(carbon, 0) {
		carbon = 0
	}

	utils.Success(ctx, gin.H{
		"carbonFootprint": math.Round(carbon*10) / 10,
		"description":     req.Description,
		"category":        req.Category,
	})
}

const fallbackTip = "Every small action counts! Try walking instead of driving for short trips to reduce your carbon footprint."

// DailyTip returns a short eco tip focused on the caller's most logged category.
func (a *AIController) DailyTip(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !a.ready(ctx) {
		return
	}

	var focusCategory string
	if err := a.db.Raw(`
		SELECT c.name
		FROM activities a
		JOIN categories c ON a.category_id = c.id
		WHERE a.user_id = ?
		GROUP BY c.id, c.name
		ORDER BY COUNT(*) DESC
		LIMIT 1`, userID).Scan(&focusCategory).Error; err != nil || focusCategory == "" {
		focusCategory = "general"
	}

	prompt := fmt.Sprintf(`Provide a daily eco-tip focused on "%s" activities.
Make it:
- Actionable and specific
- Under 50 words
- Motivational and positive
- Include a specific carbon saving if possible

Format: Just the tip text, no extra formatting.`, focusCategory)

	tip, err := a.llm.GenerateText(ctx.Request.Context(), prompt)
	if err != nil || strings.TrimSpace(tip) == "" {
		tip = fallbackTip
		focusCategory = "general"
	}

	utils.Success(ctx, gin.H{
		"tip":      strings.TrimSpace(tip),
		"category": focusCategory,
		"date":     time.Now().Format(services.DateLayout),
	})
}

// EcoGoal is a model-suggested reduction goal.
type EcoGoal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      string `json:"target"`
	Timeframe   string `json:"timeframe"`
	Difficulty  string `json:"difficulty"`
	Category    string `json:"category"`
}

var fallbackGoals = []EcoGoal{
	{
		Title:       "Reduce Transportation Emissions",
		Description: "Walk or bike for short trips instead of driving",
		Target:      "10 kg CO₂ reduction",
		Timeframe:   "monthly",
		Difficulty:  "beginner",
		Category:    "transportation",
	},
}

// SuggestGoals asks the model for monthly goals based on the caller's totals.
func (a *AIController) SuggestGoals(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !a.ready(ctx) {
		return
	}

	var stats struct {
		TotalActivities int64
		TotalCarbon     float64
		AvgCarbon       float64
	}
	if err := a.db.Raw(`
		SELECT COUNT(*) AS total_activities,
		       COALESCE(SUM(carbon_footprint), 0) AS total_carbon,
		       COALESCE(AVG(carbon_footprint), 0) AS avg_carbon
		FROM activities
		WHERE user_id = ?`, userID).Scan(&stats).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load stats")
		return
	}

	prompt := fmt.Sprintf(`Based on this user's carbon footprint data, suggest 3 realistic monthly goals:

Total Activities: %d
Total Carbon: %.1f kg CO₂
Average per Activity: %.1f kg CO₂

Suggest goals as JSON array with:
- title: Goal title
- description: What to do
- target: Specific target (number + unit)
- timeframe: "weekly" or "monthly"
- difficulty: "beginner", "intermediate", "advanced"
- category: relevant category

Make goals specific, measurable, and achievable based on their current patterns.`,
		stats.TotalActivities, stats.TotalCarbon, stats.AvgCarbon)

	raw, err := a.llm.GenerateText(ctx.Request.Context(), prompt)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to suggest goals")
		return
	}

	var goals []EcoGoal
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &goals); err != nil || len(goals) == 0 {
		goals = fallbackGoals
	}

	utils.Success(ctx, gin.H{"goals": goals})
}

// stripCodeFence removes a surrounding markdown code fence, which models add
// even when asked for bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
