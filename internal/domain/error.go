package domain

import (
	"errors"
)

var ErrUserNotExist = errors.New("user does not exist")

var ErrRoleNotExist = errors.New("role does not exist")

var ErrEmailTaken = errors.New("user with this email already exists")

var ErrNilPrincipal = errors.New("principal is missing")
