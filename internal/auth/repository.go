package auth

import (
	"context"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the backend answer to login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Repository calls the backend auth endpoints.
type Repository struct {
	client *upstream.Client
}

// NewRepository creates an auth repository.
func NewRepository(client *upstream.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var tok TokenResponse
	if err := r.client.Post(ctx, "/auth/login", req, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Refresh exchanges the refresh cookie for a new access token.
func (r *Repository) Refresh(ctx context.Context) (*TokenResponse, error) {
	var tok TokenResponse
	if err := r.client.Post(ctx, "/auth/refresh", nil, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *Repository) Logout(ctx context.Context) error {
	return r.client.Post(ctx, "/auth/logout", nil, nil)
}

// Me returns the signed-in user.
func (r *Repository) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := r.client.Get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
