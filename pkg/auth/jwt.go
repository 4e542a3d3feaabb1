package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Supported signing methods.
const (
	MethodHS256 = "HS256"
	MethodRS256 = "RS256"
)

// JWTConfig describes how incoming tokens are verified. SecretKey is used
// for HS256, PublicKey (PEM) for RS256, e.g. the tenant key of an Auth0
// application.
type JWTConfig struct {
	SigningMethod string
	PublicKey     string
	SecretKey     string
	Issuer        string
	Audience      []string
}

// JWTValidator verifies signed tokens for the local server.
type JWTValidator struct {
	method   jwt.SigningMethod
	key      interface{}
	issuer   string
	audience []string
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	method, key, err := verificationKey(config.SigningMethod, config.SecretKey, config.PublicKey)
	if err != nil {
		return nil, err
	}
	return &JWTValidator{
		method:   method,
		key:      key,
		issuer:   config.Issuer,
		audience: config.Audience,
	}, nil
}

// verificationKey resolves the method name and the key material that checks
// its signatures. An empty name means HS256.
func verificationKey(name, secret, publicPEM string) (jwt.SigningMethod, interface{}, error) {
	switch name {
	case MethodHS256, "":
		if secret == "" {
			return nil, nil, errors.New("HS256 needs a secret key")
		}
		return jwt.SigningMethodHS256, []byte(secret), nil
	case MethodRS256:
		if publicPEM == "" {
			return nil, nil, errors.New("RS256 needs a public key")
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicPEM))
		if err != nil {
			return nil, nil, fmt.Errorf("parse RS256 public key: %w", err)
		}
		return jwt.SigningMethodRS256, pub, nil
	}
	return nil, nil, fmt.Errorf("unsupported signing method: %s", name)
}

// Validate checks signature, expiry, issuer and audience of a raw token and
// returns its registered claims.
func (v *JWTValidator) Validate(tokenString string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{v.method.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if len(v.audience) > 0 && !slices.ContainsFunc(v.audience, func(aud string) bool {
		return slices.Contains(claims.Audience, aud)
	}) {
		return nil, fmt.Errorf("%w: invalid audience", ErrInvalidClaims)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}

	return claims, nil
}

// JWTGeneratorConfig configures token issuing. SecretKey is used for HS256,
// PrivateKey (PEM) for RS256.
type JWTGeneratorConfig struct {
	SigningMethod string
	PrivateKey    string
	SecretKey     string
	Issuer        string
	Audience      []string
	ExpiryTime    time.Duration
}

// JWTGenerator issues tokens for local development and tests.
type JWTGenerator struct {
	method   jwt.SigningMethod
	key      interface{}
	issuer   string
	audience []string
	ttl      time.Duration
}

// NewJWTGenerator creates a new JWT generator. Tokens live for an hour unless
// ExpiryTime says otherwise.
func NewJWTGenerator(config JWTGeneratorConfig) (*JWTGenerator, error) {
	g := &JWTGenerator{
		issuer:   config.Issuer,
		audience: config.Audience,
		ttl:      config.ExpiryTime,
	}
	if g.ttl == 0 {
		g.ttl = time.Hour
	}

	switch config.SigningMethod {
	case MethodHS256, "":
		if config.SecretKey == "" {
			return nil, errors.New("HS256 needs a secret key")
		}
		g.method, g.key = jwt.SigningMethodHS256, []byte(config.SecretKey)
	case MethodRS256:
		priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(config.PrivateKey))
		if err != nil {
			return nil, fmt.Errorf("parse RS256 private key: %w", err)
		}
		g.method, g.key = jwt.SigningMethodRS256, priv
	default:
		return nil, fmt.Errorf("unsupported signing method: %s", config.SigningMethod)
	}

	return g, nil
}

// GenerateToken signs a token whose subject is userID.
func (g *JWTGenerator) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    g.issuer,
		Subject:   userID,
		Audience:  g.audience,
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(g.method, claims).SignedString(g.key)
}

type contextKey string

const userIDContextKey contextKey = "userID"

// WithUserID stores the resolved caller id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the caller id stored by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}
