package progression_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seojin-dev/eldoria/internal/game/ability"
	"github.com/seojin-dev/eldoria/internal/progression"
)

// recordingRepo captures writes and optionally fails them.
type recordingRepo struct {
	mu      sync.Mutex
	calls   [][]ability.Grant
	failErr error
}

func (r *recordingRepo) IncreaseExperience(_ context.Context, _ uuid.UUID, grants []ability.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, grants)
	return r.failErr
}

func (r *recordingRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestGrantAsync_WritesThrough(t *testing.T) {
	repo := &recordingRepo{}
	g := progression.NewGranter(repo, zap.NewNop())

	g.GrantAsync(uuid.New(), []ability.Grant{
		{AbilityID: "slash", Exp: 1},
		{AbilityID: "sword_mastery", Exp: 1},
	})
	g.Wait()

	require.Equal(t, 1, repo.callCount())
	assert.Len(t, repo.calls[0], 2)
}

func TestGrantAsync_EmptyIsNoOp(t *testing.T) {
	repo := &recordingRepo{}
	g := progression.NewGranter(repo, zap.NewNop())

	g.GrantAsync(uuid.New(), nil)
	g.Wait()

	assert.Equal(t, 0, repo.callCount())
}

func TestGrantAsync_FailureSwallowed(t *testing.T) {
	repo := &recordingRepo{failErr: errors.New("connection refused")}
	g := progression.NewGranter(repo, zap.NewNop())

	// Must not panic or surface the error to the caller.
	g.GrantAsync(uuid.New(), []ability.Grant{{AbilityID: "slash", Exp: 1}})
	g.Wait()

	assert.Equal(t, 1, repo.callCount())
}

func TestGrantAsync_ConcurrentGrants(t *testing.T) {
	repo := &recordingRepo{}
	g := progression.NewGranter(repo, zap.NewNop())

	for i := 0; i < 20; i++ {
		g.GrantAsync(uuid.New(), []ability.Grant{{AbilityID: "slash", Exp: 1}})
	}
	g.Wait()

	assert.Equal(t, 20, repo.callCount())
}
