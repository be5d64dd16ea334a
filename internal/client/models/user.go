package models

import "time"

// User is the locally known identity: the account plus merged preferences.
// It is the only piece of authentication state that survives a restart.
type User struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	RegisteredAt  time.Time   `json:"registeredAt"`
	Preferences   Preferences `json:"preferences"`
}

// NewUser builds a User from a remote account and already merged preferences.
func NewUser(a *Account, prefs Preferences) *User {
	return &User{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		EmailVerified: a.EmailVerification,
		RegisteredAt:  a.Registration,
		Preferences:   prefs,
	}
}

// WithPreferences returns a copy of u carrying prefs.
func (u *User) WithPreferences(prefs Preferences) *User {
	cp := *u
	cp.Preferences = prefs
	return &cp
}
