package adapters

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nzvirtual/api/internal/domain"
	"github.com/nzvirtual/api/internal/ports"
)

const (
	Issuer   = "org.nzvirtual.api"
	Audience = "flyak"

	// HS512 needs a key at least as long as its hash output.
	minKeyBytes = 64
)

var (
	ErrInvalidSecret = errors.New("invalid jwt secret")
	ErrEmptyToken    = errors.New("token string is empty")

	errUnsupportedMethod = errors.New("unsupported signing method")
)

type ProviderJWT struct {
	secret   string
	lifetime time.Duration
	logger   *zap.Logger
	recorder ports.ValidationRecorder
	now      func() time.Time

	keyOnce sync.Once
	key     []byte
	keyErr  error
}

type Option func(*ProviderJWT)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(pj *ProviderJWT) {
		if now != nil {
			pj.now = now
		}
	}
}

func WithRecorder(recorder ports.ValidationRecorder) Option {
	return func(pj *ProviderJWT) {
		if recorder != nil {
			pj.recorder = recorder
		}
	}
}

// NewProviderJWT creates a token provider. The secret is decoded lazily on
// first use, so a malformed secret is reported by the first call that needs
// the key rather than here.
func NewProviderJWT(secret string, lifetimeMinutes int, logger *zap.Logger, opts ...Option) (*ProviderJWT, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger[zap.Logger] is a mandatory dependency")
	}
	if lifetimeMinutes <= 0 {
		return nil, fmt.Errorf("lifetimeMinutes[int] must be greater than zero")
	}
	pj := &ProviderJWT{
		secret:   secret,
		lifetime: time.Duration(lifetimeMinutes) * time.Minute,
		logger:   logger,
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(pj)
	}
	return pj, nil
}

func (pj *ProviderJWT) signingKey() ([]byte, error) {
	pj.keyOnce.Do(func() {
		keyBytes, err := base64.StdEncoding.DecodeString(pj.secret)
		if err != nil {
			pj.keyErr = fmt.Errorf("%w: %w", ErrInvalidSecret, err)
			return
		}
		if len(keyBytes) < minKeyBytes {
			pj.keyErr = fmt.Errorf("%w: key has %d bits, HS512 requires at least %d",
				ErrInvalidSecret, len(keyBytes)*8, minKeyBytes*8)
			return
		}
		pj.key = keyBytes
		pj.logger.Debug("signing key derived", zap.Int("bits", len(keyBytes)*8))
	})
	return pj.key, pj.keyErr
}

func (pj *ProviderJWT) GenerateToken(user *domain.User) (string, error) {
	if user == nil {
		return "", domain.ErrNilPrincipal
	}
	return pj.buildJWTString(user)
}

func (pj *ProviderJWT) GenerateTokenFromAuthentication(auth domain.Authentication) (string, error) {
	user, err := auth.User()
	if err != nil {
		return "", err
	}
	return pj.buildJWTString(user)
}

func (pj *ProviderJWT) buildJWTString(user *domain.User) (string, error) {
	key, err := pj.signingKey()
	if err != nil {
		pj.logger.Error("Signing key is unavailable", zap.Error(err))
		return "", err
	}

	issuedAt := pj.now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS512,
		ports.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   strconv.FormatInt(user.ID, 10),
				IssuedAt:  jwt.NewNumericDate(issuedAt),
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(pj.lifetime)),
				Issuer:    Issuer,
				Audience:  jwt.ClaimStrings{Audience},
			},
			Name:  user.Name,
			Roles: user.RolesArray(),
		},
	)

	tokenString, err := token.SignedString(key)
	if err != nil {
		pj.logger.Error("Failed to sign token", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// SubjectFromToken returns the sub claim of a token that passes every check
// ValidateToken applies. Callers get the parse error, not a default subject.
func (pj *ProviderJWT) SubjectFromToken(tokenString string) (string, error) {
	claims, err := pj.parse(tokenString)
	if err != nil {
		return "", fmt.Errorf("failed to parse claims: %w", err)
	}
	return claims.Subject, nil
}

func (pj *ProviderJWT) ValidateToken(tokenString string) bool {
	return pj.check(tokenString) == ports.OutcomeValid
}

func (pj *ProviderJWT) check(tokenString string) ports.ValidationOutcome {
	_, err := pj.parse(tokenString)
	outcome := classify(err)
	pj.recorder.RecordValidation(outcome)

	switch outcome {
	case ports.OutcomeValid:
	case ports.OutcomeExpired:
		pj.logger.Info("Caught expired token", zap.Stringer("outcome", outcome))
	case ports.OutcomeUnsupported:
		pj.logger.Error("Caught unsupported token",
			zap.Stringer("outcome", outcome), zap.Error(err), zap.Stack("stacktrace"))
	default:
		pj.logger.Error("Caught invalid token", zap.Stringer("outcome", outcome), zap.Error(err))
	}
	return outcome
}

func (pj *ProviderJWT) parse(tokenString string) (*ports.Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrEmptyToken
	}
	key, err := pj.signingKey()
	if err != nil {
		return nil, err
	}

	claims := &ports.Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if m, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || m.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, fmt.Errorf("%w: %v", errUnsupportedMethod, t.Header["alg"])
			}
			return key, nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(pj.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// classify maps a parse error onto an outcome. The order matters: claim
// validation errors may be joined, and expiry wins over other claim errors.
func classify(err error) ports.ValidationOutcome {
	switch {
	case err == nil:
		return ports.OutcomeValid
	case errors.Is(err, ErrEmptyToken):
		return ports.OutcomeIllegalArgument
	case errors.Is(err, ErrInvalidSecret):
		return ports.OutcomeKeyUnavailable
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ports.OutcomeMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ports.OutcomeUnsupported
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ports.OutcomeBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ports.OutcomeExpired
	default:
		return ports.OutcomeInvalidClaims
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordValidation(ports.ValidationOutcome) {}
