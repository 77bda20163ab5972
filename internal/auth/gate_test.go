package auth

import (
	"errors"
	"testing"
)

func TestGateLogin(t *testing.T) {
	gate := NewGate("admin", "1234")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid credentials", username: "admin", password: "1234"},
		{name: "username with surrounding whitespace", username: "  admin \n", password: "1234"},
		{name: "wrong username", username: "root", password: "1234", wantErr: true},
		{name: "wrong password", username: "admin", password: "12345", wantErr: true},
		{name: "password is compared verbatim", username: "admin", password: " 1234", wantErr: true},
		{name: "empty credentials", username: "", password: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.Login(tc.username, tc.password)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
		})
	}
}
