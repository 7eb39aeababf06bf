package library

import (
	"context"
	"fmt"

	"bibliobot/internal/models"
)

// Client defines the operations the bot performs against the remote
// library API. The real implementation lives in library/rest; an
// in-memory fake for tests and local development lives in library/stubs.
type Client interface {
	// Session
	Login(ctx context.Context, email, senha string) (models.Session, error)
	Register(ctx context.Context, nome, email, senha string) (string, error)
	// SetToken installs a previously persisted bearer token. Login
	// overwrites it; there is no refresh handling.
	SetToken(token string)

	// Book catalog
	ListBooks(ctx context.Context) ([]models.Livro, error)
	CreateBook(ctx context.Context, livro models.Livro) (string, error)
	UpdateBook(ctx context.Context, id int, livro models.Livro) (string, error)
	DeleteBook(ctx context.Context, id int) (string, error)

	// Loans
	ListUsers(ctx context.Context) ([]models.Usuario, error)
	ListLoans(ctx context.Context) ([]models.LoanView, error)
	CreateLoan(ctx context.Context, usuarioID, livroID, dataPrevista string) (string, error)
	ReturnLoan(ctx context.Context, id string) (string, error)
}

// APIError is a completed HTTP exchange with a non-success status.
// Message carries the server-provided error text when there was one, so
// callers can prefer it over their generic fallback. Anything that is
// not an APIError is a transport failure that never reached the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}
