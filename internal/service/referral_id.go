package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/gauravnehare1411/introducer-app-backend/internal/repository"
)

// referralIDGenerator allocates unique referral IDs of the form
// <uppercase name initials><4 random digits>, e.g. "JS4821" for John Smith.
// Attempts are bounded so pathological collision rates surface as an error
// instead of spinning forever.
type referralIDGenerator struct {
	userRepo    repository.UserRepository
	maxAttempts int
}

func newReferralIDGenerator(userRepo repository.UserRepository, maxAttempts int) *referralIDGenerator {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	return &referralIDGenerator{
		userRepo:    userRepo,
		maxAttempts: maxAttempts,
	}
}

func (g *referralIDGenerator) Generate(ctx context.Context, name string) (string, error) {
	prefix := initialsPrefix(name)

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		suffix, err := randomDigits(4)
		if err != nil {
			return "", fmt.Errorf("failed to generate referral id suffix: %w", err)
		}
		candidate := prefix + suffix

		existing, err := g.userRepo.FindByReferralID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check referral id uniqueness: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}

	return "", domain.ErrReferralIDExhausted
}

// initialsPrefix builds the uppercase-initials prefix from whitespace
// separated name tokens. Empty or whitespace-only names fall back to "XX".
func initialsPrefix(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "XX"
	}

	var b strings.Builder
	for _, field := range fields {
		r := []rune(field)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func randomDigits(n int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}

	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
