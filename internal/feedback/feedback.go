// Package feedback collects community votes on the outcome of resolved
// complaints.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"samadhan/internal/audit"
	"samadhan/internal/complaint/models"
	"samadhan/internal/complaint/store"
	"samadhan/internal/platform/metrics"
	"samadhan/pkg/domainerrors"
	"samadhan/pkg/sentinel"
)

// Direction is a single vote.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// TallyCache mirrors vote counters into a fast read path for public feeds.
// Best effort: cache failures never fail a vote.
type TallyCache interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// AuditPublisher receives vote events after each committed tally.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Aggregator applies community votes. The complaint store is the source of
// truth; counters are monotonic and serialized per complaint by the store.
// There is no per-voter dedup.
type Aggregator struct {
	complaints store.Store
	cache      TallyCache
	audit      AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures optional aggregator dependencies.
type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithTallyCache mirrors counters to Redis when a client is configured.
func WithTallyCache(cache TallyCache) Option {
	return func(a *Aggregator) { a.cache = cache }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(a *Aggregator) { a.audit = publisher }
}

func New(complaints store.Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		complaints: complaints,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Vote records one vote on a Verified or Closed complaint and returns the new
// tallies. Votes on complaints still in flight are rejected without touching
// the counters.
func (a *Aggregator) Vote(ctx context.Context, id string, direction Direction) (models.CommunityVotes, error) {
	p := store.Patch{
		ExpectStatus: []models.Status{models.StatusVerified, models.StatusClosed},
	}
	switch direction {
	case DirectionUp:
		p.UpVotes = 1
	case DirectionDown:
		p.DownVotes = 1
	default:
		return models.CommunityVotes{}, domainerrors.Newf(domainerrors.CodeValidation, "unknown vote direction %q", direction)
	}

	c, err := a.complaints.Update(ctx, id, p)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return models.CommunityVotes{}, domainerrors.New(domainerrors.CodeNotFound, "complaint not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return models.CommunityVotes{}, domainerrors.New(domainerrors.CodeInvalidTransition, "voting opens once the complaint is verified")
		default:
			return models.CommunityVotes{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to record vote")
		}
	}

	if a.metrics != nil {
		a.metrics.Votes.WithLabelValues(string(direction)).Inc()
	}
	a.mirror(ctx, id, direction)
	if a.audit != nil {
		if err := a.audit.Emit(ctx, audit.Event{
			ComplaintID: id,
			Action:      audit.ActionVoteCast,
			Note:        string(direction),
		}); err != nil {
			a.logger.WarnContext(ctx, "audit emit failed", "complaint_id", id, "error", err)
		}
	}
	return c.CommunityVotes, nil
}

// mirror bumps the Redis tally. Failures are logged and ignored.
func (a *Aggregator) mirror(ctx context.Context, id string, direction Direction) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Incr(ctx, TallyKey(id, direction)).Err(); err != nil {
		a.logger.WarnContext(ctx, "vote tally mirror failed", "complaint_id", id, "error", err)
	}
}

// TallyKey is the Redis key holding one complaint's counter for a direction.
func TallyKey(id string, direction Direction) string {
	return fmt.Sprintf("samadhan:votes:%s:%s", id, direction)
}
