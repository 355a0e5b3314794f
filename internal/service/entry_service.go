package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"guidedjournal/internal/domains"
)

type EntryProvider interface {
	SaveEntry(ctx context.Context, entry domains.EntryToSave) (domains.Entry, error)
	GetEntry(ctx context.Context, userID, entryID int64) (domains.Entry, error)
	MarkExercised(ctx context.Context, userID int64, localDate time.Time) error
}

type EntryService struct {
	provider EntryProvider
	guided   *GuidedService
	facts    *FactsBuilder
	now      func() time.Time
}

func NewEntryService(provider EntryProvider, guided *GuidedService, facts *FactsBuilder) *EntryService {
	return &EntryService{
		provider: provider,
		guided:   guided,
		facts:    facts,
		now:      time.Now,
	}
}

// SubmitEntry resolves the questions the user was shown, with the submitted
// answers threaded into the facts, and stores the answers to those questions
// only. Answers to questions that were not offered are dropped.
func (s *EntryService) SubmitEntry(ctx context.Context, user domains.User, submission domains.EntrySubmission) (domains.EntryResult, error) {
	now := s.now()
	facts := s.facts.Build(ctx, user, now).WithSubmission(domains.PartialSubmission(submission.Answers))
	resolution := s.guided.ResolveWithFacts(ctx, user, submission.TemplateID, facts)

	answers := make([]domains.Answer, 0, len(resolution.Questions))
	for _, q := range resolution.Questions {
		raw := submission.Answers[q.ID]
		if strings.TrimSpace(raw) == "" {
			if q.Required {
				return domains.EntryResult{}, fmt.Errorf("%w: %s", ErrAnswerRequired, q.ID)
			}
			continue
		}
		value, err := EncodeAnswer(q, raw)
		if err != nil {
			return domains.EntryResult{}, fmt.Errorf("%w: %s: %v", ErrAnswerInvalid, q.ID, err)
		}
		answers = append(answers, domains.Answer{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Value:        value,
		})
	}

	// Only the template actually used is linked to the entry.
	var templateID *int64
	if resolution.Source == domains.SourceTemplate {
		templateID = resolution.TemplateID
	}

	entry, err := s.provider.SaveEntry(ctx, domains.EntryToSave{
		UserID:     user.ID,
		TemplateID: templateID,
		Content:    submission.Content,
		CreatedAt:  now.UTC(),
		Answers:    answers,
	})
	if err != nil {
		slog.Error("SaveEntry failed", "err", err, "user_id", user.ID)
		return domains.EntryResult{}, err
	}

	if exercised(answers) {
		s.markExercised(ctx, user, now)
	}

	return domains.EntryResult{Entry: entry, Resolution: resolution}, nil
}

func (s *EntryService) GetEntry(ctx context.Context, userID, entryID int64) (domains.Entry, error) {
	return s.provider.GetEntry(ctx, userID, entryID)
}

// markExercised is best effort; the entry is already stored.
func (s *EntryService) markExercised(ctx context.Context, user domains.User, at time.Time) {
	date, err := s.facts.LocalDate(user, at)
	if err != nil {
		slog.Warn("exercise not recorded, timezone unusable", "err", err, "user_id", user.ID, "timezone", user.Timezone)
		return
	}
	if err := s.provider.MarkExercised(ctx, user.ID, date); err != nil {
		slog.Error("MarkExercised failed", "err", err, "user_id", user.ID)
	}
}

func exercised(answers []domains.Answer) bool {
	for _, a := range answers {
		if a.QuestionID == domains.ExerciseQuestionID {
			return a.Value == "Yes"
		}
	}
	return false
}
