package storage

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/paintrack/backend/internal/models"
)

const (
	// MinEntriesForPatterns is the entry count below which no pattern is
	// reported.
	MinEntriesForPatterns = 5

	timeBucketThreshold = 0.5
	triggerThreshold    = 40
)

// DefaultTriggerStats is served to users who have not logged any entries yet.
func DefaultTriggerStats() []models.TriggerStat {
	return []models.TriggerStat{
		{Name: "Weather changes", Frequency: 45},
		{Name: "Stress", Frequency: 38},
		{Name: "Poor sleep", Frequency: 32},
		{Name: "Physical activity", Frequency: 25},
	}
}

// TriggerStats counts, for each trigger tag, the percentage of entries that
// mention it. Tags are matched case-insensitively and reported with the
// spelling first seen. The result is sorted by frequency, then name.
func TriggerStats(triggerSets [][]string) []models.TriggerStat {
	total := len(triggerSets)
	if total == 0 {
		return DefaultTriggerStats()
	}

	counts := map[string]int{}
	names := map[string]string{}
	for _, set := range triggerSets {
		seen := map[string]bool{}
		for _, raw := range set {
			name := strings.TrimSpace(raw)
			key := strings.ToLower(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if _, ok := names[key]; !ok {
				names[key] = name
			}
			counts[key]++
		}
	}

	stats := make([]models.TriggerStat, 0, len(counts))
	for key, n := range counts {
		stats = append(stats, models.TriggerStat{
			Name:      names[key],
			Frequency: percent(n, total),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Frequency != stats[j].Frequency {
			return stats[i].Frequency > stats[j].Frequency
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// PatternInput is the slice of an entry the pattern heuristic looks at.
type PatternInput struct {
	RecordedAt time.Time
	Triggers   []string
}

// DetectPatterns applies the time-of-day and dominant-trigger heuristics.
// Hours are taken in loc. At most two patterns are returned.
func DetectPatterns(entries []PatternInput, loc *time.Location) []models.Pattern {
	patterns := []models.Pattern{}
	total := len(entries)
	if total < MinEntriesForPatterns {
		return patterns
	}
	if loc == nil {
		loc = time.Local
	}

	var morning, evening int
	triggerSets := make([][]string, 0, total)
	for _, e := range entries {
		switch h := e.RecordedAt.In(loc).Hour(); {
		case h >= 5 && h < 12:
			morning++
		case h >= 18 || h < 5:
			evening++
		}
		triggerSets = append(triggerSets, e.Triggers)
	}

	morningShare := float64(morning) / float64(total)
	eveningShare := float64(evening) / float64(total)
	switch {
	case morningShare > timeBucketThreshold:
		patterns = append(patterns, models.Pattern{
			ID:          "morning-pattern",
			Title:       "Morning pain pattern",
			Description: fmt.Sprintf("%d of your last %d entries were logged between 5am and noon.", morning, total),
			Confidence:  percent(morning, total),
		})
	case eveningShare > timeBucketThreshold:
		patterns = append(patterns, models.Pattern{
			ID:          "evening-pattern",
			Title:       "Evening pain pattern",
			Description: fmt.Sprintf("%d of your last %d entries were logged in the evening or overnight.", evening, total),
			Confidence:  percent(evening, total),
		})
	}

	stats := TriggerStats(triggerSets)
	if len(stats) > 0 && stats[0].Frequency > triggerThreshold {
		top := stats[0]
		patterns = append(patterns, models.Pattern{
			ID:          "trigger-pattern",
			Title:       fmt.Sprintf("%s is a common trigger", top.Name),
			Description: fmt.Sprintf("%s appears in %d%% of your pain entries.", top.Name, top.Frequency),
			Confidence:  top.Frequency,
		})
	}
	return patterns
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

// isoDate formats t as the local calendar date used to key taken doses.
func isoDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}
