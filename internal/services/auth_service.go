package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crmneon/internal/entities"
	"crmneon/internal/models"
	"crmneon/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUserNotFound = errors.New("user not found for tenant")

// AuthService issues tokens and publishes the verification documents
type AuthService interface {
	IssueToken(ctx context.Context, userID, tenantID int64) (*models.TokenResponse, error)
	JWKS() models.JWKSet
	OpenIDConfiguration() models.OpenIDConfiguration
}

type authService struct {
	users    repositories.RecordRepository
	keys     *KeySet
	issuer   string
	audience string
	tokenTTL int // Access token TTL in seconds
	jwks     models.JWKSet
	now      func() time.Time
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID   int64 `json:"userId"`
	TenantID int64 `json:"tenantId"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service. The JWKS document is
// derived once here.
func NewAuthService(users repositories.RecordRepository, keys *KeySet, issuer, audience string) AuthService {
	return &authService{
		users:    users,
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		tokenTTL: TokenTTLSeconds,
		jwks:     keys.JWKS(),
		now:      time.Now,
	}
}

// IssueToken mints an RS256 access token for a user of tenantID
func (s *authService) IssueToken(ctx context.Context, userID, tenantID int64) (*models.TokenResponse, error) {
	if userID <= 0 || tenantID <= 0 {
		return nil, fmt.Errorf("user and tenant ids must be positive")
	}

	if _, err := s.users.GetByID(ctx, entities.Describe(entities.Users).Name, userID, tenantID); err != nil {
		var notFound *repositories.RecordNotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	now := s.now().Truncate(time.Second)
	claims := TokenClaims{
		UserID:   userID,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = KeyID
	signed, err := token.SignedString(s.keys.Private)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{Token: signed, ExpiresIn: s.tokenTTL}, nil
}

func (s *authService) JWKS() models.JWKSet {
	return s.jwks
}

func (s *authService) OpenIDConfiguration() models.OpenIDConfiguration {
	return models.OpenIDConfiguration{
		Issuer:                           s.issuer,
		JWKSURI:                          strings.TrimSuffix(s.issuer, "/") + "/.well-known/jwks.json",
		IDTokenSigningAlgValuesSupported: []string{SigningAlg},
	}
}
