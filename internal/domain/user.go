package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const DefaultRole = "ROLE_USER"

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"index;unique" json:"email"`
	Password  string    `json:"-"`
	Roles     []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

func NewUser(name, email, passwordPlain string, roles ...string) (*User, error) {
	password, err := bcrypt.GenerateFromPassword([]byte(passwordPlain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}
	user := &User{
		Name:     name,
		Email:    email,
		Password: string(password),
	}
	for _, role := range roles {
		user.Roles = append(user.Roles, Role{Name: role})
	}
	return user, nil
}

func (u *User) ValidatePassword(passwordPlain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(passwordPlain))
	return err == nil
}

// RolesArray returns role names in the order they are attached to the user.
// The result is never nil so it encodes as an empty JSON array.
func (u *User) RolesArray() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
