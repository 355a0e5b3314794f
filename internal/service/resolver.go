package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"guidedjournal/internal/condition"
	"guidedjournal/internal/domains"
	"guidedjournal/internal/metrics"
	"guidedjournal/internal/storage"

	"github.com/dustin/go-humanize"
)

const templateMissingNotice = "template not found, showing default questions"

// maxHumanHours keeps the duration conversion inside time.Duration's range.
const maxHumanHours = 2_000_000

type QuestionSource interface {
	GetQuestions(ctx context.Context, templateID int64) ([]domains.Question, error)
}

// Resolver turns a template selection and facts into the ordered questions to
// show. Given the same template contents and facts it returns the same result.
type Resolver struct {
	questions QuestionSource
}

func NewResolver(questions QuestionSource) *Resolver {
	return &Resolver{questions: questions}
}

// Resolve never fails. A nil templateID, a missing template or a storage
// error all resolve against DefaultQuestions.
func (r *Resolver) Resolve(ctx context.Context, templateID *int64, facts domains.Facts) domains.Resolution {
	if templateID == nil {
		return r.ResolveDefault(nil, facts)
	}

	questions, err := r.questions.GetQuestions(ctx, *templateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("template not found, using defaults", "template_id", *templateID)
		} else {
			slog.Error("load template questions failed, using defaults", "err", err, "template_id", *templateID)
		}
		return r.ResolveDefault(templateID, facts)
	}

	id := *templateID
	metrics.RecordResolution(string(domains.SourceTemplate))
	return domains.Resolution{
		TemplateID: &id,
		Source:     domains.SourceTemplate,
		Questions:  resolveQuestions(questions, facts),
	}
}

// ResolveDefault resolves the built-in set. requested is the template the
// caller asked for, if any; it only affects the notice.
func (r *Resolver) ResolveDefault(requested *int64, facts domains.Facts) domains.Resolution {
	metrics.RecordResolution(string(domains.SourceDefault))
	resolution := domains.Resolution{
		Source:    domains.SourceDefault,
		Questions: resolveQuestions(DefaultQuestions(), facts),
	}
	if requested != nil {
		resolution.Notice = templateMissingNotice
	}
	return resolution
}

func resolveQuestions(questions []domains.Question, facts domains.Facts) []domains.ResolvedQuestion {
	ordered := make([]domains.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	values := condition.Facts(facts.Values())
	resolved := make([]domains.ResolvedQuestion, 0, len(ordered))
	for _, q := range ordered {
		show, err := condition.Check(q.ConditionText(), values)
		if err != nil {
			metrics.RecordConditionFailOpen()
			slog.Debug("condition failed open", "question_id", q.QuestionID, "err", err)
		}
		if !show {
			continue
		}

		props, err := domains.ParseProperties(q.Type, q.Properties)
		if err != nil {
			metrics.RecordMalformedProperties()
			slog.Warn("question properties ignored", "question_id", q.QuestionID, "template_id", q.TemplateID, "err", err)
		}

		resolved = append(resolved, domains.ResolvedQuestion{
			ID:         q.QuestionID,
			Text:       interpolate(q.Text, facts),
			Type:       q.Type,
			Required:   q.Required,
			Properties: props,
			Order:      q.Order,
		})
	}
	return resolved
}

func interpolate(text string, facts domains.Facts) string {
	if !strings.Contains(text, TimeSinceLastEntryToken) {
		return text
	}
	return strings.ReplaceAll(text, TimeSinceLastEntryToken, humanizeHours(facts.HoursSinceLastEntry))
}

func humanizeHours(hours float64) string {
	switch {
	case math.IsNaN(hours) || math.IsInf(hours, 1) || hours > maxHumanHours:
		return "a while"
	case hours < 1:
		return "less than an hour"
	}
	base := time.Unix(0, 0)
	return strings.TrimSpace(humanize.RelTime(base, base.Add(time.Duration(hours*float64(time.Hour))), "", ""))
}
