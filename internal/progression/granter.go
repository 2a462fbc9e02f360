// Package progression hands battle experience grants to the persistence
// layer without ever blocking combat on a write.
package progression

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
)

// Repository is the persistence surface the granter writes through.
type Repository interface {
	IncreaseExperience(ctx context.Context, characterID uuid.UUID, grants []ability.Grant) error
}

const defaultWriteTimeout = 5 * time.Second

// Granter applies experience grants asynchronously. Write failures are
// logged and swallowed: combat outcomes already committed to in-memory
// state are never rolled back, and a lost grant must not block the
// player's session.
type Granter struct {
	repo    Repository
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewGranter creates a Granter writing through repo.
//
// Precondition: repo and logger must be non-nil.
func NewGranter(repo Repository, logger *zap.Logger) *Granter {
	return &Granter{
		repo:    repo,
		logger:  logger,
		timeout: defaultWriteTimeout,
	}
}

// GrantAsync launches the experience write in the background and returns
// immediately. An empty grant list is a no-op.
//
// Postcondition: the caller is never blocked on, nor informed of, the
// write's outcome.
func (g *Granter) GrantAsync(characterID uuid.UUID, grants []ability.Grant) {
	if len(grants) == 0 {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()
		if err := g.repo.IncreaseExperience(ctx, characterID, grants); err != nil {
			g.logger.Warn("experience grant failed",
				zap.String("character_id", characterID.String()),
				zap.Int("grants", len(grants)),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every launched grant has finished. Intended for
// shutdown and tests.
func (g *Granter) Wait() {
	g.wg.Wait()
}
