package ports

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/nzvirtual/api/internal/domain"
)

type JWT interface {
	GenerateToken(user *domain.User) (string, error)
	GenerateTokenFromAuthentication(auth domain.Authentication) (string, error)
	SubjectFromToken(tokenString string) (string, error)
	ValidateToken(tokenString string) bool
}

type Claims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// ValidationOutcome is the result of checking a token.
type ValidationOutcome int

const (
	OutcomeValid ValidationOutcome = iota
	OutcomeBadSignature
	OutcomeMalformed
	OutcomeExpired
	OutcomeUnsupported
	OutcomeIllegalArgument
	OutcomeInvalidClaims
	OutcomeKeyUnavailable
)

var outcomeNames = [...]string{
	OutcomeValid:           "valid",
	OutcomeBadSignature:    "bad_signature",
	OutcomeMalformed:       "malformed",
	OutcomeExpired:         "expired",
	OutcomeUnsupported:     "unsupported",
	OutcomeIllegalArgument: "illegal_argument",
	OutcomeInvalidClaims:   "invalid_claims",
	OutcomeKeyUnavailable:  "key_unavailable",
}

func (o ValidationOutcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

type ValidationRecorder interface {
	RecordValidation(outcome ValidationOutcome)
}
