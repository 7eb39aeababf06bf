package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"bibliobot/internal/models"
)

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Usuario     struct {
		ID    int    `json:"id"`
		Nome  string `json:"nome"`
		Email string `json:"email"`
	} `json:"usuario"`
}

type registerRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// Login authenticates against /auth/login and stores the returned
// bearer token on the client.
func (c *Client) Login(ctx context.Context, email, senha string) (models.Session, error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Senha: senha})
	if err != nil {
		return models.Session{}, err
	}
	if !success(status) {
		c.logger.Warn("Login rejected", zap.Int("status", status))
		return models.Session{}, apiError(status, raw)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.Session{}, apiError(status, raw)
	}

	c.SetToken(resp.AccessToken)
	c.logger.Info("Login succeeded", zap.String("nome", resp.Usuario.Nome))
	return models.Session{Token: resp.AccessToken, Nome: resp.Usuario.Nome}, nil
}

// Register creates a new account via /auth/register and returns the
// server's confirmation text.
func (c *Client) Register(ctx context.Context, nome, email, senha string) (string, error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Nome: nome, Email: email, Senha: senha})
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", apiError(status, raw)
	}
	return message(raw), nil
}
