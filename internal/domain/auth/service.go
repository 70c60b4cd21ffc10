package auth

import "context"

// AuthService issues access tokens for staff accounts
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}
