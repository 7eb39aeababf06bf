package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"bibliobot/internal/models"
)

// ListLoans fetches all loans and resolves each into its display view.
func (c *Client) ListLoans(ctx context.Context) ([]models.LoanView, error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/emprestimos", nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, apiError(status, raw)
	}

	var emprestimos []models.Emprestimo
	if err := json.Unmarshal(raw, &emprestimos); err != nil {
		return nil, fmt.Errorf("decoding loan list: %w", err)
	}

	views := make([]models.LoanView, 0, len(emprestimos))
	for _, e := range emprestimos {
		views = append(views, models.ResolveLoan(e))
	}
	return views, nil
}

// CreateLoan registers a new loan. Ids are sent as numbers when they
// parse as numbers and as the original strings otherwise; the server's
// id types are not assumed.
func (c *Client) CreateLoan(ctx context.Context, usuarioID, livroID, dataPrevista string) (string, error) {
	payload := map[string]any{
		"usuario_id":    coerceID(usuarioID),
		"livro_id":      coerceID(livroID),
		"data_prevista": dataPrevista,
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/emprestimos", payload)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", apiError(status, raw)
	}
	c.logger.Info("Loan created",
		zap.String("usuario_id", usuarioID),
		zap.String("livro_id", livroID),
		zap.String("data_prevista", dataPrevista),
	)
	return message(raw), nil
}

// ReturnLoan closes a loan. The primary route is a PUT; some deployments
// only expose a POST variant, so a 405 triggers exactly one retry
// against the alternate path. No other status is retried.
func (c *Client) ReturnLoan(ctx context.Context, id string) (string, error) {
	escaped := url.PathEscape(id)

	status, raw, err := c.do(ctx, http.MethodPut, "/emprestimos/"+escaped+"/devolver", nil)
	if err != nil {
		return "", err
	}
	if success(status) {
		return message(raw), nil
	}

	primaryErr := apiError(status, raw)
	if status != http.StatusMethodNotAllowed {
		return "", primaryErr
	}

	c.logger.Warn("Return endpoint rejected PUT, retrying POST variant", zap.String("id", id))

	status, raw, err = c.do(ctx, http.MethodPost, "/devolver/"+escaped, nil)
	if err != nil {
		return "", err
	}
	if !success(status) {
		fallbackErr := apiError(status, raw)
		if fallbackErr.Message == "" {
			// Keep the primary error text when the fallback has none.
			fallbackErr.Message = primaryErr.Message
		}
		return "", fallbackErr
	}
	return message(raw), nil
}

// coerceID turns a selected id into a number when it looks like one.
func coerceID(id string) any {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}
