package models

// Livro represents a catalog book as exposed by the API.
// JSON field names follow the backend (pt-BR).
type Livro struct {
	ID         int    `json:"id"`
	Titulo     string `json:"titulo"`
	Autor      string `json:"autor"`
	Ano        *int   `json:"ano"`
	Categoria  string `json:"categoria,omitempty"`
	Quantidade int    `json:"quantidade"`
}

// Disponivel reports whether the book has units left to lend.
func (l Livro) Disponivel() bool {
	return l.Quantidade > 0
}

// Usuario represents a registered user as returned by the user endpoints.
type Usuario struct {
	ID    int    `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email,omitempty"`
}

// Session is the client-side session: the bearer token issued at login
// and the display name to greet the user with. The token is opaque;
// there is no refresh or expiry handling.
type Session struct {
	Token string
	Nome  string
}
