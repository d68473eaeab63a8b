package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/multidisease/platform-api/internal/core/domain"
)

const bearerScheme = "Bearer"

// tokenClaims is the JWT payload shared by the issuer and the verifier.
type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenVerifier checks bearer tokens against the process-wide signing secret.
// It holds no per-request state and is safe for concurrent use.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify extracts the token from an Authorization header value and validates
// its HS256 signature and expiry.
func (v *TokenVerifier) Verify(authorizationHeader string) (*domain.Claims, error) {
	if len(v.secret) == 0 {
		return nil, domain.ErrServerMisconfigured
	}

	raw, err := bearerToken(authorizationHeader)
	if err != nil {
		return nil, err
	}

	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, domain.ErrInvalidCredential
	}

	out := &domain.Claims{
		UserID:  claims.UserID,
		TokenID: claims.ID,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// bearerToken returns the second space separated field of the header,
// provided the scheme is Bearer. An empty field, as in "Bearer  tok", counts
// as no token at all.
func bearerToken(header string) (string, error) {
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", domain.ErrMissingCredential
	}
	token, _, _ := strings.Cut(rest, " ")
	if token == "" {
		return "", domain.ErrMissingCredential
	}
	return token, nil
}

// TokenIssuer signs tokens the TokenVerifier accepts.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL returns the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for userID that expires after the configured TTL.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	if len(i.secret) == 0 {
		return "", domain.ErrServerMisconfigured
	}

	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}
