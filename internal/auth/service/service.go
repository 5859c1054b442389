// Package service implements staff authentication: login, refresh token
// rotation and account provisioning.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/password"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/roles"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/token"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// msgBadCredentials is shared by every login failure so responses never
// reveal whether an account exists or is disabled.
const msgBadCredentials = "invalid email or password"

const (
	accessTokenType  = "access"
	refreshTokenSize = 48
)

type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues a token pair. The response never
// distinguishes unknown emails from wrong passwords or deactivated accounts;
// the audit log does.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (transport.TokenPairResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", normalized, false, "unknown email")
			return transport.TokenPairResponse{}, apperr.Unauthorized(msgBadCredentials)
		}
		return transport.TokenPairResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", normalized, false, "wrong password")
		return transport.TokenPairResponse{}, apperr.Unauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		s.log.AuthEvent("login", normalized, false, "account deactivated")
		return transport.TokenPairResponse{}, apperr.Unauthorized(msgBadCredentials)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	s.log.AuthEvent("login", normalized, true, "")
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A stolen-then-used token therefore kills the session for
// both parties.
func (s *Service) Refresh(ctx context.Context, rawToken string) (transport.TokenPairResponse, error) {
	fingerprint := token.Fingerprint(rawToken)

	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TokenPairResponse{}, apperr.Unauthorized("invalid session")
		}
		return transport.TokenPairResponse{}, err
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, fingerprint)
		return transport.TokenPairResponse{}, apperr.Unauthorized("session expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid session")
	}
	if !user.IsActive {
		_ = s.repo.RevokeAllRefreshTokens(ctx, userID)
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid session")
	}

	if err := s.repo.RevokeRefreshToken(ctx, fingerprint); err != nil {
		return transport.TokenPairResponse{}, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.Fingerprint(rawToken))
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (auth.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Profile{}, apperr.NotFound("user not found")
		}
		return auth.Profile{}, err
	}
	return toProfile(user), nil
}

// CreateUser provisions a staff account. Roles must come from the known
// set; regions only matter for designers but are accepted on any account.
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	for _, role := range req.Roles {
		if !roles.IsKnown(role) {
			return transport.UserResponse{}, apperr.Validation(fmt.Sprintf("unknown role %q", role))
		}
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Roles:        req.Roles,
		Regions:      req.Regions,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return transport.UserResponse{}, apperr.Conflict("email already registered")
		}
		return transport.UserResponse{}, err
	}

	s.log.Info("staff account created", "userId", user.ID, "roles", user.Roles)
	return toUserResponse(user), nil
}

// SetUserActive enables or disables an account. Disabling also revokes all
// sessions so the account cannot refresh its way back in.
func (s *Service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (transport.UserResponse, error) {
	user, err := s.repo.SetUserActive(ctx, userID, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, err
	}

	if !active {
		if err := s.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
			s.log.Error("failed to revoke sessions for deactivated user", "userId", userID, "error", err)
		}
	}

	return toUserResponse(user), nil
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (transport.TokenPairResponse, error) {
	accessTTL := s.cfg.GetAccessTokenTTL()

	accessToken, err := s.signAccessToken(user, accessTTL)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	refreshToken, err := token.NewOpaque(refreshTokenSize)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.Fingerprint(refreshToken), expiresAt); err != nil {
		return transport.TokenPairResponse{}, err
	}

	return transport.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTTL / time.Second),
	}, nil
}

/// signAccessToken emits the claim shape the httpkit middleware parses:
// sub, type=access and roles.
func (s *Service) signAccessToken(user repository.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  accessTokenType,
		"roles": user.Roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toProfile(user repository.User) auth.Profile {
	return auth.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Roles:     user.Roles,
		Regions:   user.Regions,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Roles:     user.Roles,
		Regions:   user.Regions,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
