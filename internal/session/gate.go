package session

import "fmt"

// LoginRequiredError is returned by Gate for anonymous sessions. Redirect is
// the command the user asked for, to be resumed after login.
type LoginRequiredError struct {
	Redirect string
}

func (e *LoginRequiredError) Error() string {
	if e.Redirect == "" {
		return "login required: run 'kk auth login'"
	}
	return fmt.Sprintf("login required: run 'kk auth login --redirect %q'", e.Redirect)
}

// Gate allows a protected action only when the session is authenticated.
func Gate(s *Session, requested string) error {
	if s.IsAuthenticated() {
		return nil
	}
	return &LoginRequiredError{Redirect: requested}
}
