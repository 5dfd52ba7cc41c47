package session

import (
	"context"
	"errors"

	"rollbook/internal/schoolapi"
)

// ErrNoSession indicates no valid login session exists for the request.
var ErrNoSession = errors.New("no active session")

// Session is one teacher's login: the backend token pair plus the cached
// user record. It lives in the store from login until logout or a failed
// token verification.
type Session struct {
	ID           string         `json:"id"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         schoolapi.User `json:"user"`
}

// Store persists sessions between requests and across restarts.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
