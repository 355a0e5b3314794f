package service

import (
	"context"
	"log/slog"
	"time"

	"guidedjournal/internal/domains"
)

type TemplateAccess interface {
	CanUse(ctx context.Context, userID, templateID int64) (bool, error)
}

// GuidedService resolves the guided-journal form for a user: it builds the
// facts, threads in answers from the form in progress and keeps users away
// from templates they may not use.
type GuidedService struct {
	facts    *FactsBuilder
	resolver *Resolver
	access   TemplateAccess
	now      func() time.Time
}

func NewGuidedService(facts *FactsBuilder, resolver *Resolver, access TemplateAccess) *GuidedService {
	return &GuidedService{
		facts:    facts,
		resolver: resolver,
		access:   access,
		now:      time.Now,
	}
}

func (g *GuidedService) Resolve(ctx context.Context, user domains.User, request domains.GuidedRequest) domains.Resolution {
	facts := g.facts.Build(ctx, user, g.now()).WithSubmission(request.Answers)
	return g.ResolveWithFacts(ctx, user, request.TemplateID, facts)
}

// ResolveWithFacts resolves with already computed facts. A template the user
// may not use is handled like a missing one.
func (g *GuidedService) ResolveWithFacts(ctx context.Context, user domains.User, templateID *int64, facts domains.Facts) domains.Resolution {
	if templateID != nil {
		allowed, err := g.access.CanUse(ctx, user.ID, *templateID)
		if err != nil {
			slog.Error("template access check failed, using defaults", "err", err, "user_id", user.ID, "template_id", *templateID)
			return g.resolver.ResolveDefault(templateID, facts)
		}
		if !allowed {
			slog.Warn("template not usable by user, using defaults", "user_id", user.ID, "template_id", *templateID)
			return g.resolver.ResolveDefault(templateID, facts)
		}
	}
	return g.resolver.Resolve(ctx, templateID, facts)
}
