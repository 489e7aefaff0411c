package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/daily-report-backend/internal/app/model"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/ikkim/daily-report-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker records revoked token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.SalesPerson, *util.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, access *util.Claims, refreshToken string) error
	Me(ctx context.Context, actor Actor) (*model.SalesPerson, error)
}

type authService struct {
	salesPersonRepo repository.SalesPersonRepository
	revoker         TokenRevoker
	jwtSecret       string
	accessExpiry    time.Duration
	refreshExpiry   time.Duration
}

// NewAuthService builds the auth service. revoker may be nil, in which case
// logout only discards tokens client-side.
func NewAuthService(
	salesPersonRepo repository.SalesPersonRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		salesPersonRepo: salesPersonRepo,
		revoker:         revoker,
		jwtSecret:       jwtSecret,
		accessExpiry:    accessExpiry,
		refreshExpiry:   refreshExpiry,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.SalesPerson, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Attempting login", logger.Fields{"email": email})

	person, err := s.salesPersonRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", logger.Fields{"email": email})
			return nil, nil, invalidCredentials()
		}
		return nil, nil, classify("find sales person for login", "sales person", err, logger.Fields{"email": email})
	}

	if !util.VerifyPassword(person.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", logger.Fields{"sales_person_id": person.ID})
		return nil, nil, invalidCredentials()
	}
	if !person.IsActive {
		logger.Warn("Login failed: inactive account", logger.Fields{"sales_person_id": person.ID})
		return nil, nil, invalidCredentials()
	}

	tokens, err := s.issue(person)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Login succeeded", logger.Fields{
		"sales_person_id": person.ID,
		"role":            person.Role,
	})
	return person, tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateTokenOfType(refreshToken, s.jwtSecret, util.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, apperrors.Unauthenticated(apperrors.AuthTokenExpired, "refresh token has expired")
		}
		return nil, apperrors.Unauthenticated(apperrors.AuthTokenInvalid, "refresh token is invalid")
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, classify("check token revocation", "token", err, logger.Fields{"sales_person_id": claims.UserID})
		}
		if revoked {
			return nil, apperrors.Unauthenticated(apperrors.AuthTokenRevoked, "refresh token has been revoked")
		}
	}

	person, err := s.salesPersonRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated(apperrors.AuthTokenInvalid, "refresh token is invalid")
		}
		return nil, classify("find sales person for refresh", "sales person", err, logger.Fields{"sales_person_id": claims.UserID})
	}
	if !person.IsActive {
		logger.Warn("Refresh denied: inactive account", logger.Fields{"sales_person_id": person.ID})
		return nil, apperrors.Unauthenticated(apperrors.AuthUnauthorized, "account is inactive")
	}

	// Rotate: the presented refresh token cannot be used again.
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			return nil, classify("revoke refresh token", "token", err, logger.Fields{"sales_person_id": person.ID})
		}
	}

	return s.issue(person)
}

func (s *authService) Logout(ctx context.Context, access *util.Claims, refreshToken string) error {
	if s.revoker == nil || access == nil {
		return nil
	}

	if err := s.revoker.Revoke(ctx, access.ID, access.RemainingTTL()); err != nil {
		return classify("revoke access token", "token", err, logger.Fields{"sales_person_id": access.UserID})
	}

	if refreshToken != "" {
		refresh, err := util.ValidateTokenOfType(refreshToken, s.jwtSecret, util.TokenTypeRefresh)
		if err == nil && refresh.UserID == access.UserID {
			if err := s.revoker.Revoke(ctx, refresh.ID, refresh.RemainingTTL()); err != nil {
				return classify("revoke refresh token", "token", err, logger.Fields{"sales_person_id": access.UserID})
			}
		}
	}

	logger.Info("Logout succeeded", logger.Fields{"sales_person_id": access.UserID})
	return nil
}

func (s *authService) Me(ctx context.Context, actor Actor) (*model.SalesPerson, error) {
	person, err := s.salesPersonRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, classify("find current sales person", "sales person", err, logger.Fields{"sales_person_id": actor.ID})
	}
	return person, nil
}

func (s *authService) issue(person *model.SalesPerson) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		person.ID,
		person.Email,
		string(person.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, logger.Fields{"sales_person_id": person.ID})
		return nil, apperrors.Internal(err)
	}
	return tokens, nil
}

func invalidCredentials() error {
	return apperrors.Unauthenticated(apperrors.AuthInvalidCredentials, "invalid email or password")
}
