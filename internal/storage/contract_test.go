package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
)

// testNow is a Sunday afternoon in UTC. Every store under test is pinned to it.
var testNow = time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type storeFactory func(t *testing.T) storage.Store

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, s storage.Store, name string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.NewUser(name, "$2a$10$hash"))
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	return u
}

func entryAt(userID uint, at time.Time, intensity int, triggers ...string) *models.PainEntry {
	return &models.PainEntry{
		UserID:     userID,
		RecordedAt: at,
		Intensity:  intensity,
		Locations:  []string{"lower back"},
		Triggers:   triggers,
	}
}

// runStoreContract exercises the behaviour both store implementations share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := createUser(t, s, "alice")
		assert.Equal(t, "alice", u.Username)
		assert.Empty(t, u.MedicalHistory)
		assert.Nil(t, u.FullName)
		assert.False(t, u.ProfileCompleted)

		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Username, got.Username)

		byName, err := s.GetUserByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		_, err = s.GetUser(ctx, 9999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update user merges patch and completes profile", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "bob")

		updated, err := s.UpdateUser(ctx, u.ID, &models.UserPatch{
			FullName:  strPtr("Bob Smith"),
			Allergies: []string{"penicillin"},
		})
		require.NoError(t, err)
		assert.True(t, updated.ProfileCompleted)
		require.NotNil(t, updated.FullName)
		assert.Equal(t, "Bob Smith", *updated.FullName)
		assert.Equal(t, []string{"penicillin"}, []string(updated.Allergies))
		assert.Nil(t, updated.Email)

		again, err := s.UpdateUser(ctx, u.ID, &models.UserPatch{Email: strPtr("bob@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "Bob Smith", *again.FullName)
		assert.Equal(t, "bob@example.com", *again.Email)

		_, err = s.UpdateUser(ctx, 9999, &models.UserPatch{})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("pain entry round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "carol")

		in := &models.PainEntry{
			UserID:          u.ID,
			RecordedAt:      testNow.Add(-time.Hour),
			Intensity:       7,
			Locations:       []string{"neck", "shoulders"},
			Characteristics: []string{"throbbing"},
			Triggers:        []string{"Stress"},
			Notes:           strPtr("after a long meeting"),
			MedicationTaken: true,
			MedicationIDs:   []uint{3},
		}
		created, err := s.CreatePainEntry(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		list, err := s.GetPainEntriesByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		got := list[0]
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, in.UserID, got.UserID)
		assert.True(t, in.RecordedAt.Equal(got.RecordedAt))
		assert.Equal(t, in.Intensity, got.Intensity)
		assert.Equal(t, []string(in.Locations), []string(got.Locations))
		assert.Equal(t, []string(in.Characteristics), []string(got.Characteristics))
		assert.Equal(t, []string(in.Triggers), []string(got.Triggers))
		require.NotNil(t, got.Notes)
		assert.Equal(t, *in.Notes, *got.Notes)
		assert.Equal(t, in.MedicationTaken, got.MedicationTaken)
		assert.Equal(t, []uint(in.MedicationIDs), []uint(got.MedicationIDs))
	})

	t.Run("entry ordering and windows", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "dave")
		other := createUser(t, s, "erin")

		for _, e := range []*models.PainEntry{
			entryAt(u.ID, testNow.Add(-3*time.Hour), 3),
			entryAt(u.ID, testNow.Add(-1*time.Hour), 5),
			entryAt(u.ID, testNow.Add(-2*time.Hour), 4),
			entryAt(u.ID, testNow.AddDate(0, 0, -10), 8),
			entryAt(other.ID, testNow, 1),
		} {
			_, err := s.CreatePainEntry(ctx, e)
			require.NoError(t, err)
		}

		all, err := s.GetPainEntriesByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, []int{5, 4, 3, 8}, intensities(all))

		recent, err := s.GetRecentPainEntries(ctx, u.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 4}, intensities(recent))

		none, err := s.GetRecentPainEntries(ctx, u.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, none)

		trend, err := s.GetPainTrend(ctx, u.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 5}, intensities(trend))

		wide, err := s.GetPainTrend(ctx, u.ID, 30)
		require.NoError(t, err)
		assert.Equal(t, []int{8, 3, 4, 5}, intensities(wide))
	})

	t.Run("trigger stats", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "frank")

		defaults, err := s.GetTriggerStats(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, storage.DefaultTriggerStats(), defaults)

		for _, e := range []*models.PainEntry{
			entryAt(u.ID, testNow.Add(-1*time.Hour), 4, "Stress", "Poor sleep"),
			entryAt(u.ID, testNow.Add(-2*time.Hour), 4, "stress"),
			entryAt(u.ID, testNow.Add(-3*time.Hour), 4, "Weather changes"),
			entryAt(u.ID, testNow.Add(-4*time.Hour), 4),
		} {
			_, err := s.CreatePainEntry(ctx, e)
			require.NoError(t, err)
		}

		stats, err := s.GetTriggerStats(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, stats, 3)
		assert.Equal(t, "stress", strings.ToLower(stats[0].Name))
		assert.Equal(t, 50, stats[0].Frequency)
		assert.Equal(t, models.TriggerStat{Name: "Poor sleep", Frequency: 25}, stats[1])
		assert.Equal(t, models.TriggerStat{Name: "Weather changes", Frequency: 25}, stats[2])
	})

	t.Run("morning pattern", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "gina")

		day := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
		for _, h := range []int{6, 7, 9, 11, 20} {
			_, err := s.CreatePainEntry(ctx, entryAt(u.ID, day.Add(time.Duration(h)*time.Hour), 5))
			require.NoError(t, err)
		}

		patterns, err := s.GetPatterns(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, patterns, 1)
		assert.Equal(t, "morning-pattern", patterns[0].ID)
		assert.Equal(t, 80, patterns[0].Confidence)
	})

	t.Run("medication scenario", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "alice")

		med, err := s.CreateMedication(ctx, &models.Medication{
			UserID:    u.ID,
			Name:      "Ibuprofen",
			TimeOfDay: []string{"Morning", "Evening"},
			Active:    true,
		})
		require.NoError(t, err)

		today, err := s.GetTodayMedications(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, today, 1)
		assert.Equal(t, "Ibuprofen", today[0].Name)
		assert.Equal(t, []bool{false, false}, today[0].TakenToday)

		st, err := s.TakeMedication(ctx, med.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, st.TakenToday)

		// taking the same dose twice is a no-op
		st, err = s.TakeMedication(ctx, med.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, st.TakenToday)

		today, err = s.GetTodayMedications(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, today, 1)
		assert.Equal(t, []bool{true, false}, today[0].TakenToday)

		_, err = s.TakeMedication(ctx, med.ID, 2)
		assert.ErrorIs(t, err, storage.ErrValidation)
		_, err = s.TakeMedication(ctx, 9999, 0)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("inactive medications are not due today", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "hank")

		_, err := s.CreateMedication(ctx, &models.Medication{UserID: u.ID, Name: "Old", TimeOfDay: []string{"Morning"}})
		require.NoError(t, err)
		_, err = s.CreateMedication(ctx, &models.Medication{UserID: u.ID, Name: "Current", TimeOfDay: []string{"Morning"}, Active: true})
		require.NoError(t, err)

		all, err := s.GetMedicationsByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		today, err := s.GetTodayMedications(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, today, 1)
		assert.Equal(t, "Current", today[0].Name)
	})

	t.Run("reminder defaults are idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		u := createUser(t, s, "ivy")

		first, err := s.GetReminderSettings(ctx, u.ID)
		require.NoError(t, err)
		second, err := s.GetReminderSettings(ctx, u.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.PainLogReminders)
		assert.True(t, first.MedicationReminders)
		assert.False(t, first.WeeklySummary)
		assert.Equal(t, "daily", first.Frequency)
		assert.Equal(t, "evening", first.PreferredTime)
		assert.Equal(t, "gentle", first.Style)
		assert.Equal(t, *first, *second)

		weekly := true
		updated, err := s.UpdateReminderSettings(ctx, u.ID, &models.ReminderPatch{
			WeeklySummary: &weekly,
			Style:         strPtr("firm"),
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, updated.ID)
		assert.True(t, updated.WeeklySummary)
		assert.Equal(t, "firm", updated.Style)
		assert.Equal(t, "daily", updated.Frequency)
	})
}

func intensities(entries []models.PainEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Intensity)
	}
	return out
}

