package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

// RecommendationThreshold is the trigger frequency, in percent, from which a
// trigger-specific recommendation is made.
const RecommendationThreshold = 30

type InsightsService struct {
	store storage.Store
	loc   *time.Location
}

func NewInsightsService(store storage.Store, loc *time.Location) *InsightsService {
	if loc == nil {
		loc = time.Local
	}
	return &InsightsService{store: store, loc: loc}
}

func (s *InsightsService) Triggers(ctx context.Context, userID uint) ([]models.TriggerStat, error) {
	return s.store.GetTriggerStats(ctx, userID)
}

func (s *InsightsService) Patterns(ctx context.Context, userID uint) ([]models.Pattern, error) {
	return s.store.GetPatterns(ctx, userID)
}

// Summary aggregates the entries recorded in the last days days.
func (s *InsightsService) Summary(ctx context.Context, userID uint, days int) (*types.PainSummary, error) {
	entries, err := s.store.GetPainTrend(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	summary := Summarize(entries, days, s.loc)
	return &summary, nil
}

// Summarize computes a PainSummary; calendar days are counted in loc.
func Summarize(entries []models.PainEntry, days int, loc *time.Location) types.PainSummary {
	sum := types.PainSummary{Days: days, EntryCount: len(entries)}
	if len(entries) == 0 {
		return sum
	}

	total := 0
	sum.MinIntensity = entries[0].Intensity
	dates := map[string]bool{}
	locations := map[string]int{}
	for _, e := range entries {
		total += e.Intensity
		if e.Intensity > sum.MaxIntensity {
			sum.MaxIntensity = e.Intensity
		}
		if e.Intensity < sum.MinIntensity {
			sum.MinIntensity = e.Intensity
		}
		if e.MedicationTaken {
			sum.MedicationTakenCount++
		}
		dates[e.RecordedAt.In(loc).Format("2006-01-02")] = true
		for _, l := range e.Locations {
			locations[l]++
		}
	}

	sum.DaysLogged = len(dates)
	sum.AverageIntensity = math.Round(float64(total)/float64(len(entries))*10) / 10

	best := 0
	for l, n := range locations {
		if n > best || (n == best && l < sum.MostCommonLocation) {
			best = n
			sum.MostCommonLocation = l
		}
	}
	return sum
}

type triggerAdvice struct {
	keyword     string
	id          string
	title       string
	description string
	category    string
}

var adviceByTrigger = []triggerAdvice{
	{"stress", "stress-management", "Build a stress-reduction routine",
		"Stress shows up in %d%% of your entries. Short breathing exercises or a daily walk can lower baseline tension.", "lifestyle"},
	{"sleep", "sleep-hygiene", "Protect your sleep",
		"Poor sleep appears in %d%% of your entries. A fixed bedtime and a dark, cool room often help.", "lifestyle"},
	{"weather", "weather-planning", "Plan around weather changes",
		"Weather changes appear in %d%% of your entries. Keep medication and heat packs at hand when a front is forecast.", "planning"},
	{"activity", "activity-pacing", "Pace physical activity",
		"Physical activity appears in %d%% of your entries. Spreading effort across the day can prevent flare-ups.", "exercise"},
	{"exercise", "activity-pacing", "Pace physical activity",
		"Exercise appears in %d%% of your entries. Spreading effort across the day can prevent flare-ups.", "exercise"},
}

// Recommendations suggests next steps from the user's own trigger history.
func (s *InsightsService) Recommendations(ctx context.Context, userID uint) ([]models.Recommendation, error) {
	entries, err := s.store.GetPainEntriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recs := []models.Recommendation{}
	if len(entries) < storage.MinEntriesForPatterns {
		recs = append(recs, models.Recommendation{
			ID:          "keep-logging",
			Title:       "Keep logging your pain",
			Description: fmt.Sprintf("Log at least %d entries so patterns and triggers can be spotted.", storage.MinEntriesForPatterns),
			Category:    "tracking",
			Priority:    "high",
		})
		if len(entries) == 0 {
			return recs, nil
		}
	}

	stats, err := s.store.GetTriggerStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, st := range stats {
		if st.Frequency < RecommendationThreshold {
			continue
		}
		rec := adviceFor(st)
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		recs = append(recs, rec)
	}
	return recs, nil
}

func adviceFor(st models.TriggerStat) models.Recommendation {
	priority := "medium"
	if st.Frequency >= 50 {
		priority = "high"
	}
	name := strings.ToLower(st.Name)
	for _, a := range adviceByTrigger {
		if strings.Contains(name, a.keyword) {
			return models.Recommendation{
				ID:          a.id,
				Title:       a.title,
				Description: fmt.Sprintf(a.description, st.Frequency),
				Category:    a.category,
				Priority:    priority,
			}
		}
	}
	return models.Recommendation{
		ID:          "trigger-" + slug(st.Name),
		Title:       fmt.Sprintf("Watch for %s", st.Name),
		Description: fmt.Sprintf("%s appears in %d%% of your entries. Note what happens before it to find ways to avoid it.", st.Name, st.Frequency),
		Category:    "triggers",
		Priority:    priority,
	}
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var resources = []models.Resource{
	{
		ID:          "pain-diary-guide",
		Title:       "Keeping a useful pain diary",
		Description: "What to record and how to share it with your clinician.",
		Type:        "article",
		URL:         "https://www.nhs.uk/live-well/pain/",
	},
	{
		ID:          "breathing-exercises",
		Title:       "Breathing exercises for stress",
		Description: "Five-minute exercises that help with tension-related pain.",
		Type:        "exercise",
		URL:         "https://www.nhs.uk/mental-health/self-help/guides-tools-and-activities/breathing-exercises-for-stress/",
	},
	{
		ID:          "sleep-tips",
		Title:       "How to get to sleep",
		Description: "Practical advice for better sleep.",
		Type:        "article",
		URL:         "https://www.nhs.uk/live-well/sleep-and-tiredness/how-to-get-to-sleep/",
	},
	{
		ID:          "chronic-pain-support",
		Title:       "Living with chronic pain",
		Description: "Support groups and self-management programmes.",
		Type:        "support",
		URL:         "https://www.painconcern.org.uk/",
	},
}

// Resources returns the static list of self-help resources.
func (s *InsightsService) Resources() []models.Resource {
	out := make([]models.Resource, len(resources))
	copy(out, resources)
	return out
}
