package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialsPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two names", "John Smith", "JS"},
		{"three names", "mary jane watson", "MJW"},
		{"single name", "Cher", "C"},
		{"empty", "", "XX"},
		{"whitespace only", "   \t ", "XX"},
		{"extra spacing", "  Ada   Lovelace  ", "AL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, initialsPrefix(tc.in))
		})
	}
}

func TestGenerateFormat(t *testing.T) {
	g := newReferralIDGenerator(newMockUserRepo(), 100)

	id, err := g.Generate(context.Background(), "John Smith")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^JS\d{4}$`), id)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	repo := &collidingUserRepo{mockUserRepo: newMockUserRepo(), collisions: 3}
	g := newReferralIDGenerator(repo, 100)

	id, err := g.Generate(context.Background(), "John Smith")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^JS\d{4}$`), id)
	assert.Equal(t, 4, repo.lookups)
}

func TestGenerateExhaustsBoundedAttempts(t *testing.T) {
	repo := &collidingUserRepo{mockUserRepo: newMockUserRepo(), collisions: -1}
	g := newReferralIDGenerator(repo, 5)

	_, err := g.Generate(context.Background(), "John Smith")
	assert.ErrorIs(t, err, domain.ErrReferralIDExhausted)
	assert.Equal(t, 5, repo.lookups)
}

// collidingUserRepo reports the first N referral-ID lookups as taken.
// collisions < 0 makes every candidate collide.
type collidingUserRepo struct {
	*mockUserRepo
	collisions int
	lookups    int
}

func (r *collidingUserRepo) FindByReferralID(ctx context.Context, referralID string) (*domain.User, error) {
	r.lookups++
	if r.collisions < 0 || r.lookups <= r.collisions {
		return &domain.User{ID: "taken", ReferralID: referralID}, nil
	}
	return r.mockUserRepo.FindByReferralID(ctx, referralID)
}
