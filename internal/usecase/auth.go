package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/tenant"
)

// Session is the token handed back by the tenant API. UserID is only set
// once SessionVerifier has established who owns the token.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// ParseSession reads sub and exp without verifying the signature. The sub it
// returns is a display hint only; per-user state is keyed by
// SessionVerifier.Resolve. A token that is not a JWT yields zero values.
func ParseSession(token string) Session {
	s := Session{Token: token}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return s
	}
	s.UserID = claims.Subject
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// Expired reports whether the session carries an exp in the past.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type AuthUsecase struct {
	api    TenantAPI
	logger *zap.Logger
}

func NewAuthUsecase(api TenantAPI, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{api: api, logger: logger}
}

func (uc *AuthUsecase) Login(ctx context.Context, form domain.LoginForm) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))

	token, err := uc.api.SignIn(ctx, tenant.Credentials{Email: email, Password: form.Password})
	if err != nil {
		if errors.Is(err, tenant.ErrUnauthorized) {
			uc.logger.Info("login rejected", zap.String("email", email))
			return nil, domain.ErrBadCredentials
		}
		uc.logger.Error("login failed", zap.String("email", email), zap.Error(err))
		return nil, tenantError(err, nil)
	}

	s := ParseSession(token)
	uc.logger.Info("user logged in", zap.String("user_id", s.UserID))
	return &s, nil
}

func (uc *AuthUsecase) SignUp(ctx context.Context, form domain.SignUpForm) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	token, err := uc.api.SignUp(ctx, tenant.SignUpRequest{
		Email:     strings.ToLower(strings.TrimSpace(form.Email)),
		Password:  form.Password,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Phone:     strings.TrimSpace(form.Phone),
	})
	if err != nil {
		uc.logger.Error("signup failed", zap.Error(err))
		return nil, tenantError(err, nil)
	}

	s := ParseSession(token)
	return &s, nil
}

func (uc *AuthUsecase) Me(ctx context.Context, token string) (*tenant.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.api.Me(ctx, token)
	if err != nil {
		return nil, tenantError(err, nil)
	}
	return u, nil
}
