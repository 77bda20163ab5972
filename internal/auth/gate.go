package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Gate is the local login check in front of the quiz surfaces. Credentials
// come from configuration; there is no account store behind it.
type Gate struct {
	username string
	password string
}

func NewGate(username, password string) *Gate {
	return &Gate{
		username: username,
		password: password,
	}
}

// Login validates the supplied credentials. Username comparison ignores
// surrounding whitespace; the password is compared verbatim.
func (g *Gate) Login(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
