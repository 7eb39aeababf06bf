package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"bibliobot/internal/models"
)

// ListBooks fetches the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]models.Livro, error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/livros", nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, apiError(status, raw)
	}

	var livros []models.Livro
	if err := json.Unmarshal(raw, &livros); err != nil {
		return nil, fmt.Errorf("decoding book list: %w", err)
	}
	return livros, nil
}

// CreateBook adds a book to the catalog and returns the server's
// confirmation text.
func (c *Client) CreateBook(ctx context.Context, livro models.Livro) (string, error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/add_livro", livro)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", apiError(status, raw)
	}
	c.logger.Info("Book created", zap.String("titulo", livro.Titulo))
	return message(raw), nil
}

// UpdateBook replaces all fields of the book with the given id.
func (c *Client) UpdateBook(ctx context.Context, id int, livro models.Livro) (string, error) {
	status, raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/update_livro/%d", id), livro)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", apiError(status, raw)
	}
	c.logger.Info("Book updated", zap.Int("id", id))
	return message(raw), nil
}

// DeleteBook removes the book with the given id.
func (c *Client) DeleteBook(ctx context.Context, id int) (string, error) {
	status, raw, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/delete_livro/%d", id), nil)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", apiError(status, raw)
	}
	c.logger.Info("Book deleted", zap.Int("id", id))
	return message(raw), nil
}
