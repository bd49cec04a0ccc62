// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. Access and refresh tokens are signed with HS256 using two
// purpose-scoped secrets, so a token minted for one purpose never verifies as
// the other.
package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// TokenType marks the purpose a token was minted for.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// # Claims

// AccessClaims is the payload embedded inside an access token.
//
// The claims are the identity context for the lifetime of a request; the
// guard never consults storage to rebuild them.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID      string    `json:"uid"`
	Username    string    `json:"unm"`
	Email       string    `json:"eml"`
	DisplayName string    `json:"dnm"`
	Type        TokenType `json:"typ"`
}

// RefreshClaims is the payload of a refresh token. It carries only the user id;
// the registered jti makes every minted token distinct.
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID string    `json:"uid"`
	Type   TokenType `json:"typ"`
}

// Subject is the identity an access token is minted for.
type Subject struct {
	UserID      string
	Username    string
	Email       string
	DisplayName string
}

// # Token Service

// TokenConfig carries the signing material and lifetimes for [TokenService].
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string

	// Now overrides the clock. Defaults to [time.Now].
	Now func() time.Time
}

// TokenService mints and verifies access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	switch {
	case len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0:
		return nil, errors.New("sec: signing secrets are required")
	case string(cfg.AccessSecret) == string(cfg.RefreshSecret):
		return nil, errors.New("sec: access and refresh secrets must differ")
	case cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0:
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &TokenService{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           now,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// IssueAccess creates a signed access token for the subject.
func (service *TokenService) IssueAccess(subject Subject) (string, error) {
	currentTime := service.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		UserID:      subject.UserID,
		Username:    subject.Username,
		Email:       subject.Email,
		DisplayName: subject.DisplayName,
		Type:        TokenTypeAccess,
	}

	return sign(claims, service.accessSecret)
}

// IssueRefresh creates a signed refresh token for the user.
func (service *TokenService) IssueRefresh(userID string) (string, error) {
	currentTime := service.now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.refreshTTL)),
		},
		UserID: userID,
		Type:   TokenTypeRefresh,
	}

	return sign(claims, service.refreshSecret)
}

// VerifyAccess checks signature and expiry of an access token.
//
// # Errors
//
//   - [apperr.CodeTokenExpired] when the token is past its expiry.
//   - [apperr.CodeInvalidSignature] for anything else, including refresh tokens.
func (service *TokenService) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := service.parse(tokenString, claims, service.accessSecret); err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeAccess || claims.UserID == "" {
		return nil, apperr.InvalidSignature()
	}
	return claims, nil
}

// VerifyRefresh checks signature and expiry of a refresh token. It does not
// consult the session record; that is the caller's job.
func (service *TokenService) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.parse(tokenString, claims, service.refreshSecret); err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeRefresh || claims.UserID == "" {
		return nil, apperr.InvalidSignature()
	}
	return claims, nil
}

func (service *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.TokenExpired()
	case err != nil:
		return apperr.InvalidSignature()
	case !token.Valid:
		return apperr.InvalidSignature()
	}
	return nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// # Token Fingerprints

// HashToken returns the hex SHA-256 of a token. Only this fingerprint of a
// refresh token is ever persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
