package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TokenService issues and verifies the bearer tokens that gate every
// protected route
type TokenService interface {
	// Issue signs a token bound to the given email
	Issue(ctx context.Context, email string) (string, error)

	// Verify validates a token string and returns its claims
	Verify(ctx context.Context, tokenString string) (*domain.Claims, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenService creates a new TokenService signing with HMAC-SHA256
func NewTokenService(secret string, ttl time.Duration, issuer string) TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
	}
}

// Issue signs a token carrying the email as identity claim
func (s *tokenService) Issue(ctx context.Context, email string) (string, error) {
	_, span := telemetry.StartSpan(ctx, "service.token.issue")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	if email == "" {
		span.SetStatus(codes.Error, "missing email")
		return "", domain.ErrInvalidEmail
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return signed, nil
}

// Verify parses and validates a token, rejecting non-HMAC signing methods
// and expired tokens
func (s *tokenService) Verify(ctx context.Context, tokenString string) (*domain.Claims, error) {
	_, span := telemetry.StartSpan(ctx, "service.token.verify")
	defer span.End()

	if tokenString == "" {
		span.SetStatus(codes.Error, "empty token")
		return nil, domain.ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, domain.ErrTokenExpired
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, domain.ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)
	if email == "" {
		span.SetStatus(codes.Error, "missing email claim")
		return nil, domain.ErrInvalidToken
	}

	claims := &domain.Claims{Email: email}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	span.SetAttributes(attribute.String("email", email))
	span.SetStatus(codes.Ok, "")
	return claims, nil
}
