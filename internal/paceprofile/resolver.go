package paceprofile

import (
	"context"
	"log/slog"
)

// Resolver runs an ordered chain of strategies and enforces the minimum
// tempo/interval gap on whichever profile wins.
type Resolver struct {
	strategies []Strategy
	minGap     float64
	logger     *slog.Logger
}

// NewResolver builds the standard chain. The external tier is included only
// when provider is non-nil.
func NewResolver(settings Settings, provider BoundaryProvider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	var strategies []Strategy
	if provider != nil {
		strategies = append(strategies, ExternalStrategy(provider, logger))
	}
	strategies = append(strategies, PercentileStrategy(settings), HeuristicStrategy(settings))

	return NewResolverWithStrategies(settings.MinGap, logger, strategies...)
}

// NewResolverWithStrategies builds a resolver from an explicit chain
func NewResolverWithStrategies(minGap float64, logger *slog.Logger, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		strategies: strategies,
		minGap:     minGap,
		logger:     logger,
	}
}

// Resolve returns the profile of the first strategy that succeeds.
// The heuristic fallback applies if every strategy defers.
func (r *Resolver) Resolve(ctx context.Context, req Request) Profile {
	profile := Profile{
		IntervalCutoff: DefaultSettings().IntervalCutoff,
		TempoCutoff:    DefaultSettings().TempoCutoff,
		Source:         SourceHeuristic,
	}
	for _, s := range r.strategies {
		if p, ok := s(ctx, req); ok {
			profile = p
			break
		}
	}

	profile = enforceGap(profile, r.minGap)
	recordResolution(profile.Source)

	r.logger.Debug("resolved pace profile",
		"user_id", req.UserID,
		"source", profile.Source,
		"interval_cutoff", profile.IntervalCutoff,
		"tempo_cutoff", profile.TempoCutoff,
	)
	return profile
}

// enforceGap keeps tempo at least gap seconds slower than interval
func enforceGap(p Profile, gap float64) Profile {
	if p.TempoCutoff < p.IntervalCutoff+gap {
		p.TempoCutoff = p.IntervalCutoff + gap
	}
	return p
}
