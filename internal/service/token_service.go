package service

import (
	"context"
	"errors"
	"time"

	"epunch/internal/apperr"
	"epunch/internal/authz"
	"epunch/internal/config"
	"epunch/internal/dto"
	"epunch/internal/infra"
	"epunch/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenService mints and verifies the signed session tokens that gate every
// scan and admin operation. Tokens are opaque, self-contained JWTs — there is
// no session store and no revocation list; expiry is enforced at verify time.
type TokenService interface {
	// IssueForCustomer exchanges a Google authorization code, resolves or
	// creates the customer by the provider's stable subject id, and mints a
	// role-less token.
	IssueForCustomer(ctx context.Context, googleCode string) (*dto.LoginResponse, error)
	// IssueForMerchantUser verifies staff credentials against the stored
	// bcrypt hash and mints a token carrying merchantId and role.
	IssueForMerchantUser(ctx context.Context, req dto.MerchantLoginRequest) (*dto.LoginResponse, error)
	Verify(token string) (*authz.Principal, error)
}

// Claims are the custom claims embedded in every session token.
// Role and MerchantID are empty for customer tokens.
type Claims struct {
	UserID     string `json:"userId"`
	MerchantID string `json:"merchantId,omitempty"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type tokenService struct {
	google        infra.GoogleVerifier
	users         repository.UserRepository
	merchants     repository.MerchantRepository
	merchantUsers repository.MerchantUserRepository
	cfg           *config.Config
}

func NewTokenService(
	google infra.GoogleVerifier,
	users repository.UserRepository,
	merchants repository.MerchantRepository,
	merchantUsers repository.MerchantUserRepository,
	cfg *config.Config,
) TokenService {
	return &tokenService{
		google:        google,
		users:         users,
		merchants:     merchants,
		merchantUsers: merchantUsers,
		cfg:           cfg,
	}
}

func (s *tokenService) IssueForCustomer(ctx context.Context, googleCode string) (*dto.LoginResponse, error) {
	subject, err := s.google.ExchangeCode(ctx, googleCode)
	if err != nil {
		return nil, apperr.ErrGoogleAuthFailed
	}

	user, err := s.users.GetOrCreateBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	token, err := s.sign(Claims{UserID: user.ID.String()})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.UserResponse{ID: user.ID.String()},
	}, nil
}

func (s *tokenService) IssueForMerchantUser(ctx context.Context, req dto.MerchantLoginRequest) (*dto.LoginResponse, error) {
	merchant, err := s.merchants.FindBySlug(ctx, req.MerchantSlug)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	staff, err := s.merchantUsers.FindByLogin(ctx, merchant.ID, req.Login)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if !staff.Active {
		return nil, apperr.ErrInvalidCredentials
	}
	// bcrypt comparison is constant-time by construction
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := s.sign(Claims{
		UserID:     staff.ID.String(),
		MerchantID: staff.MerchantID.String(),
		Role:       staff.Role,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:         staff.ID.String(),
			MerchantID: staff.MerchantID.String(),
			Login:      staff.Login,
			Role:       staff.Role,
		},
	}, nil
}

func (s *tokenService) Verify(token string) (*authz.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrTokenInvalid
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, apperr.ErrTokenInvalid
	}
	return &authz.Principal{
		UserID:     claims.UserID,
		MerchantID: claims.MerchantID,
		Role:       claims.Role,
	}, nil
}

func (s *tokenService) sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
