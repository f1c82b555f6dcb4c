package domain

// UserDetails is the authenticated view of a User.
type UserDetails struct {
	User *User
}

func (d *UserDetails) ID() int64 {
	if d == nil || d.User == nil {
		return 0
	}
	return d.User.ID
}

// Authentication is the result of a successful login.
type Authentication struct {
	Principal     *UserDetails
	Authenticated bool
}

func NewAuthentication(user *User) Authentication {
	return Authentication{
		Principal:     &UserDetails{User: user},
		Authenticated: true,
	}
}

func (a Authentication) User() (*User, error) {
	if a.Principal == nil || a.Principal.User == nil {
		return nil, ErrNilPrincipal
	}
	return a.Principal.User, nil
}
