package auth

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/nzvirtual/api/internal/ports"
)

var ErrInvalidToken = errors.New("invalid token")

// CheckToken validates the token and returns the user id carried in its subject.
func CheckToken(tokenString string, providerJWT ports.JWT, logger *zap.Logger) (int64, error) {
	if !providerJWT.ValidateToken(tokenString) {
		return 0, ErrInvalidToken
	}
	subject, err := providerJWT.SubjectFromToken(tokenString)
	if err != nil {
		logger.Error("failed to read token subject", zap.Error(err))
		return 0, errors.Join(ErrInvalidToken, err)
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		logger.Warn("token subject is not a user id", zap.String("subject", subject))
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, subject)
	}
	logger.Debug("user authorized successfully", zap.Int64("user_id", userID))
	return userID, nil
}
