package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sportportal/portal/internal/platform/httpx"
)

const (
	issuer   = "sportportal"
	resetTTL = 30 * time.Minute
)

// ErrInvalidToken covers malformed, expired, mis-signed or wrong-kind tokens.
var ErrInvalidToken = fmt.Errorf("%w: could not validate credentials", httpx.ErrUnauthorized)

type tokenClaims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"typ"`
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// Issue signs a token of kind for userID.
func (t *TokenIssuer) Issue(userID int64, kind TokenKind) (string, time.Time, error) {
	ttl := t.accessTTL
	switch kind {
	case KindRefresh:
		ttl = t.refreshTTL
	case KindReset:
		ttl = resetTTL
	}
	now := t.now().UTC()
	exp := now.Add(ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Kind: kind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// Pair issues an access and a refresh token.
func (t *TokenIssuer) Pair(userID int64) (TokenPair, error) {
	access, _, err := t.Issue(userID, KindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := t.Issue(userID, KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(t.accessTTL.Seconds()),
	}, nil
}

// Parse validates raw and checks it is of the expected kind.
func (t *TokenIssuer) Parse(raw string, want TokenKind) (Claims, error) {
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: token expired", httpx.ErrUnauthorized)
		}
		return Claims{}, ErrInvalidToken
	}
	if parsed.Kind != want || parsed.ID == "" {
		return Claims{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: id, Kind: parsed.Kind, JTI: parsed.ID, ExpiresAt: parsed.ExpiresAt.Time}, nil
}
