package service

import (
	"context"
	"errors"
	"testing"

	"epunch/internal/apperr"
	"epunch/internal/authz"
	"epunch/internal/config"
	"epunch/internal/dto"
	"epunch/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubGoogle struct {
	subject string
	err     error
}

func (s *stubGoogle) ExchangeCode(_ context.Context, _ string) (string, error) {
	return s.subject, s.err
}

type memUsers struct {
	bySubject map[string]model.User
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range m.bySubject {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) GetOrCreateBySubject(_ context.Context, subject string) (*model.User, error) {
	if u, ok := m.bySubject[subject]; ok {
		out := u
		return &out, nil
	}
	u := model.User{ID: uuid.New(), GoogleSubject: subject}
	m.bySubject[subject] = u
	return &u, nil
}

type memMerchants struct {
	bySlug map[string]model.Merchant
}

func (m *memMerchants) Create(_ context.Context, mr *model.Merchant) error {
	m.bySlug[mr.Slug] = *mr
	return nil
}

func (m *memMerchants) FindByID(_ context.Context, id uuid.UUID) (*model.Merchant, error) {
	for _, mr := range m.bySlug {
		if mr.ID == id {
			out := mr
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memMerchants) FindBySlug(_ context.Context, slug string) (*model.Merchant, error) {
	mr, ok := m.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := mr
	return &out, nil
}

type memMerchantUsers struct {
	byID map[uuid.UUID]model.MerchantUser
}

func (m *memMerchantUsers) Create(_ context.Context, u *model.MerchantUser) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memMerchantUsers) FindByLogin(_ context.Context, merchantID uuid.UUID, login string) (*model.MerchantUser, error) {
	for _, u := range m.byID {
		if u.MerchantID == merchantID && u.Login == login {
			out := u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memMerchantUsers) FindByID(_ context.Context, id uuid.UUID) (*model.MerchantUser, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := u
	return &out, nil
}

func (m *memMerchantUsers) ListByMerchant(_ context.Context, merchantID uuid.UUID) ([]model.MerchantUser, error) {
	var out []model.MerchantUser
	for _, u := range m.byID {
		if u.MerchantID == merchantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memMerchantUsers) Update(_ context.Context, u *model.MerchantUser) error {
	m.byID[u.ID] = *u
	return nil
}

func (m *memMerchantUsers) SoftDelete(_ context.Context, id uuid.UUID) error {
	u := m.byID[id]
	u.Active = false
	m.byID[id] = u
	return nil
}

func (m *memMerchantUsers) Reactivate(_ context.Context, id uuid.UUID) error {
	u := m.byID[id]
	u.Active = true
	m.byID[id] = u
	return nil
}

type tokenFixture struct {
	svc       TokenService
	google    *stubGoogle
	merchants *memMerchants
	staff     *memMerchantUsers
	cfg       *config.Config
	merchant  model.Merchant
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	google := &stubGoogle{subject: "google-sub-123"}
	users := &memUsers{bySubject: map[string]model.User{}}
	merchants := &memMerchants{bySlug: map[string]model.Merchant{}}
	staff := &memMerchantUsers{byID: map[uuid.UUID]model.MerchantUser{}}

	merchant := model.Merchant{ID: uuid.New(), Name: "Café Demo", Slug: "cafe-demo"}
	require.NoError(t, merchants.Create(context.Background(), &merchant))

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, staff.Create(context.Background(), &model.MerchantUser{
		MerchantID:   merchant.ID,
		Login:        "ana",
		PasswordHash: string(hash),
		Role:         authz.RoleStaff,
		Active:       true,
	}))

	return &tokenFixture{
		svc:       NewTokenService(google, users, merchants, staff, cfg),
		google:    google,
		merchants: merchants,
		staff:     staff,
		cfg:       cfg,
		merchant:  merchant,
	}
}

func TestCustomerLoginMintsRolelessToken(t *testing.T) {
	f := newTokenFixture(t)

	resp, err := f.svc.IssueForCustomer(context.Background(), "auth-code")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	p, err := f.svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, p.UserID)
	assert.Empty(t, p.MerchantID)
	assert.Empty(t, p.Role)

	// a second login with the same subject resolves to the same user
	again, err := f.svc.IssueForCustomer(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
}

func TestCustomerLoginProviderFailure(t *testing.T) {
	f := newTokenFixture(t)
	f.google.err = errors.New("exchange refused")

	_, err := f.svc.IssueForCustomer(context.Background(), "bad-code")
	assert.ErrorIs(t, err, apperr.ErrGoogleAuthFailed)
}

func TestMerchantLogin(t *testing.T) {
	f := newTokenFixture(t)
	ctx := context.Background()

	resp, err := f.svc.IssueForMerchantUser(ctx, dto.MerchantLoginRequest{
		MerchantSlug: "cafe-demo", Login: "ana", Password: "hunter22",
	})
	require.NoError(t, err)

	p, err := f.svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, f.merchant.ID.String(), p.MerchantID)
	assert.Equal(t, authz.RoleStaff, p.Role)
	assert.Equal(t, "ana", resp.User.Login)
}

func TestMerchantLoginRejections(t *testing.T) {
	f := newTokenFixture(t)
	ctx := context.Background()

	cases := map[string]dto.MerchantLoginRequest{
		"wrong password":  {MerchantSlug: "cafe-demo", Login: "ana", Password: "nope"},
		"unknown login":   {MerchantSlug: "cafe-demo", Login: "bob", Password: "hunter22"},
		"unknown tenant":  {MerchantSlug: "no-such-shop", Login: "ana", Password: "hunter22"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.IssueForMerchantUser(ctx, req)
			// one indistinct rejection for every failure mode
			assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
		})
	}
}

func TestDeactivatedStaffCannotLogin(t *testing.T) {
	f := newTokenFixture(t)
	ctx := context.Background()

	staff, err := f.staff.FindByLogin(ctx, f.merchant.ID, "ana")
	require.NoError(t, err)
	require.NoError(t, f.staff.SoftDelete(ctx, staff.ID))

	_, err = f.svc.IssueForMerchantUser(ctx, dto.MerchantLoginRequest{
		MerchantSlug: "cafe-demo", Login: "ana", Password: "hunter22",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestVerifyRejectsGarbageAndTampering(t *testing.T) {
	f := newTokenFixture(t)

	_, err := f.svc.Verify("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrTokenInvalid)

	resp, err := f.svc.IssueForCustomer(context.Background(), "auth-code")
	require.NoError(t, err)

	// token signed with another secret
	other := newTokenFixture(t)
	other.cfg.JWTSecret = "different-secret"
	_, err = other.svc.Verify(resp.Token)
	assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestVerifyDistinguishesExpiry(t *testing.T) {
	f := newTokenFixture(t)
	f.cfg.JWTExpirationHours = -1 // mint already-expired tokens

	resp, err := f.svc.IssueForCustomer(context.Background(), "auth-code")
	require.NoError(t, err)

	_, err = f.svc.Verify(resp.Token)
	assert.ErrorIs(t, err, apperr.ErrTokenExpired)
	assert.NotErrorIs(t, err, apperr.ErrTokenInvalid)
}
