package service

import (
	"context"
	"log/slog"
	"time"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/metrics"
)

// FactsProvider is the read-only storage the facts are computed from.
type FactsProvider interface {
	LastEntryBefore(ctx context.Context, userID int64, before time.Time) (time.Time, bool, error)
	HasExercised(ctx context.Context, userID int64, localDate time.Time) (bool, error)
	HasAnswerBetween(ctx context.Context, userID int64, questionID string, from, to time.Time) (bool, error)
}

// FactsBuilder computes the facts question conditions are evaluated against.
// Calendar-day facts use the user's timezone; durations are computed in UTC.
type FactsBuilder struct {
	provider        FactsProvider
	defaultLocation string
}

func NewFactsBuilder(provider FactsProvider, defaultLocation string) *FactsBuilder {
	if defaultLocation == "" {
		defaultLocation = "UTC"
	}
	return &FactsBuilder{provider: provider, defaultLocation: defaultLocation}
}

// Build never fails. A fact that cannot be computed takes its conservative
// value: no prior entry, not exercised, not before noon, no goals set.
// exercise_response is left unset; it comes from the submission in progress
// (see domains.Facts.WithSubmission).
func (b *FactsBuilder) Build(ctx context.Context, user domains.User, asOf time.Time) domains.Facts {
	facts := domains.ConservativeFacts()

	last, ok, err := b.provider.LastEntryBefore(ctx, user.ID, asOf)
	switch {
	case err != nil:
		b.fallback(domains.FactHoursSinceLastEntry, user.ID, err)
	case ok:
		hours := asOf.UTC().Sub(last.UTC()).Hours()
		if hours < 0 {
			hours = 0
		}
		facts.HoursSinceLastEntry = hours
	}

	loc, err := b.location(user)
	if err != nil {
		slog.Warn("user timezone unusable", "err", err, "user_id", user.ID, "timezone", user.Timezone)
		metrics.RecordFactFallback(domains.FactExercisedToday)
		metrics.RecordFactFallback(domains.FactIsBeforeNoon)
		metrics.RecordFactFallback(domains.FactGoalsSetToday)
		return facts
	}

	local := asOf.In(loc)
	facts.IsBeforeNoon = local.Hour() < 12

	year, month, day := local.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	localDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	if exercised, err := b.provider.HasExercised(ctx, user.ID, localDate); err != nil {
		b.fallback(domains.FactExercisedToday, user.ID, err)
	} else {
		facts.ExercisedToday = exercised
	}

	if goals, err := b.provider.HasAnswerBetween(ctx, user.ID, domains.GoalsQuestionID, dayStart, dayEnd); err != nil {
		b.fallback(domains.FactGoalsSetToday, user.ID, err)
	} else {
		facts.GoalsSetToday = goals
	}

	return facts
}

// LocalDate returns the user's calendar date at t, as midnight UTC.
func (b *FactsBuilder) LocalDate(user domains.User, t time.Time) (time.Time, error) {
	loc, err := b.location(user)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func (b *FactsBuilder) location(user domains.User) (*time.Location, error) {
	name := user.Timezone
	if name == "" {
		name = b.defaultLocation
	}
	return time.LoadLocation(name)
}

func (b *FactsBuilder) fallback(fact string, userID int64, err error) {
	slog.Warn("fact lookup failed, using conservative value", "fact", fact, "err", err, "user_id", userID)
	metrics.RecordFactFallback(fact)
}
