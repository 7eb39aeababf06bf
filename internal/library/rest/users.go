package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"bibliobot/internal/models"
)

// The backend's user route has been renamed across deployments, so the
// client probes a ranked list of candidates and stops at the first one
// that answers 2xx. Order matters and is part of the contract.
var userEndpoints = []string{
	"/usuarios",
	"/users",
	"/auth/usuarios",
	"/auth/users",
}

// profileEndpoint is the degraded-mode fallback: when no list endpoint
// answers, the current user's own profile is wrapped as a one-element
// list so the loan form still has something to offer.
const profileEndpoint = "/auth/perfil"

// ListUsers returns the selectable users for the loan form.
func (c *Client) ListUsers(ctx context.Context) ([]models.Usuario, error) {
	var lastErr error
	for _, path := range userEndpoints {
		status, raw, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			lastErr = err
			continue
		}
		if !success(status) {
			lastErr = apiError(status, raw)
			continue
		}

		var usuarios []models.Usuario
		if err := json.Unmarshal(raw, &usuarios); err != nil {
			lastErr = fmt.Errorf("decoding user list from %s: %w", path, err)
			continue
		}
		c.logger.Debug("User list loaded", zap.String("endpoint", path), zap.Int("count", len(usuarios)))
		return usuarios, nil
	}

	c.logger.Warn("All user list endpoints failed, falling back to profile", zap.Error(lastErr))

	status, raw, err := c.do(ctx, http.MethodGet, profileEndpoint, nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, apiError(status, raw)
	}

	var perfil models.Usuario
	if err := json.Unmarshal(raw, &perfil); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return []models.Usuario{perfil}, nil
}
