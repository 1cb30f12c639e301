package service

import (
	"context"
	"sync"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
)

// ---------- In-memory repository mocks ----------

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) FindByReferralID(_ context.Context, referralID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ReferralID == referralID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) AddMortgageEntry(_ context.Context, userID string, entry *domain.MortgageEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	u.MortgageDetails = append(u.MortgageDetails, *entry)
	return nil
}

func (m *mockUserRepo) AddNewMortgageRequest(_ context.Context, userID string, req *domain.NewMortgageRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	u.NewMortgageRequests = append(u.NewMortgageRequests, *req)
	return nil
}

func (m *mockUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type mockVerifyRepo struct {
	mu       sync.Mutex
	pendings map[string]*domain.PendingRegistration
	rotates  int
}

func newMockVerifyRepo() *mockVerifyRepo {
	return &mockVerifyRepo{pendings: make(map[string]*domain.PendingRegistration)}
}

func (m *mockVerifyRepo) UpsertPending(_ context.Context, p *domain.PendingRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.pendings[p.Email] = &cp
	return nil
}

func (m *mockVerifyRepo) FindPending(_ context.Context, email string) (*domain.PendingRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pendings[email]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockVerifyRepo) RotateCode(_ context.Context, email, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pendings[email]
	if !ok {
		return domain.ErrNoPendingRegistration
	}
	p.Code = code
	p.ExpiresAt = expiresAt
	m.rotates++
	return nil
}

func (m *mockVerifyRepo) DeletePending(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pendings[email]; !ok {
		return false, nil
	}
	delete(m.pendings, email)
	return true, nil
}

// expire backdates the stored expiry so throttling and expiry branches can be
// exercised without sleeping.
func (m *mockVerifyRepo) expire(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pendings[email]; ok {
		p.ExpiresAt = time.Now().Add(-time.Second)
	}
}

func (m *mockVerifyRepo) get(email string) *domain.PendingRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pendings[email]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (m *mockVerifyRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pendings)
}

type mockReferralRepo struct {
	mu        sync.Mutex
	referrals map[string]*domain.Referral
}

func newMockReferralRepo() *mockReferralRepo {
	return &mockReferralRepo{referrals: make(map[string]*domain.Referral)}
}

func (m *mockReferralRepo) Insert(_ context.Context, r *domain.Referral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.referrals[r.ID] = &cp
	return nil
}

func (m *mockReferralRepo) ListByReferralID(_ context.Context, referralID string) ([]domain.Referral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Referral
	for _, r := range m.referrals {
		if r.ReferralID == referralID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReferralRepo) UpdateStatus(_ context.Context, id, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.referrals[id]
	if !ok || r.Status == status {
		return false, nil
	}
	r.Status = status
	return true, nil
}

// ---------- Collaborator mocks ----------

type mockMailer struct {
	mu    sync.Mutex
	sends []sentMail
}

type sentMail struct {
	to   string
	name string
	code string
}

func (m *mockMailer) SendVerificationCode(toEmail, toName, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, sentMail{to: toEmail, name: toName, code: code})
	return nil
}

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
