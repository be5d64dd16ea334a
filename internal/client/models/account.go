package models

import "time"

// Account is the identity record owned by the hosted platform.
type Account struct {
	ID                string    `json:"$id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	EmailVerification bool      `json:"emailVerification"`
	Status            bool      `json:"status"`
	Registration      time.Time `json:"registration"`
}

// Session describes the platform session bound to the current client.
type Session struct {
	ID      string    `json:"$id"`
	UserID  string    `json:"userId"`
	Expire  time.Time `json:"expire"`
	Current bool      `json:"current"`

	// Secret is only present in the creation response of some deployments;
	// otherwise it is recovered from the session cookie.
	Secret string `json:"secret,omitempty"`
}
