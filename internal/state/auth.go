package state

import (
	"fmt"

	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/authstore"
)

// Login exchanges credentials for a token and stores it durably and in
// memory. It does not run the bootstrap reconciliation; front ends drive
// that off the token's presence so there is a single bootstrap path.
func (s *State) Login(email, password string) error {
	resp, err := s.client.Login(email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.storeToken(resp.AccessToken, email)
	return nil
}

// GoogleLogin exchanges a Google credential for a token.
func (s *State) GoogleLogin(credential string) error {
	resp, err := s.client.GoogleLogin(credential)
	if err != nil {
		return fmt.Errorf("google login: %w", err)
	}
	s.storeToken(resp.AccessToken, "")
	return nil
}

// Signup registers an account and immediately logs in with the same
// credentials; there is no separate signup-session state.
func (s *State) Signup(email, fullName, password string) error {
	_, err := s.client.Signup(&api.SignupRequest{
		Email:    email,
		FullName: fullName,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return s.Login(email, password)
}

// Logout is a hard reset: the durable token is removed and every piece
// of in-memory state cleared, so nothing survives into a later session.
func (s *State) Logout() {
	if err := authstore.Clear(); err != nil {
		s.log.Warn("clear stored token", zap.Error(err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// DeleteAccount deletes the server-side account, then logs out.
func (s *State) DeleteAccount() error {
	if err := s.client.DeleteAccount(); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.Logout()
	return nil
}

func (s *State) storeToken(token, email string) {
	if err := authstore.Save(&authstore.Credentials{Token: token, Email: email}); err != nil {
		s.log.Warn("persist token", zap.Error(err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.client.Token = token
}
