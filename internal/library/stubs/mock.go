// Package stubs provides an in-memory library.Client for tests and for
// running the bot without a backend.
package stubs

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"bibliobot/internal/library"
	"bibliobot/internal/models"
)

// MockAPI is an in-memory implementation of the library.Client interface.
type MockAPI struct {
	mu       sync.RWMutex
	token    string
	usuarios map[int]models.Usuario
	livros   map[int]models.Livro
	loans    []models.Emprestimo
	nextID   int
}

// NewMockAPI creates an empty mock backend.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		usuarios: make(map[int]models.Usuario),
		livros:   make(map[int]models.Livro),
		nextID:   1,
	}
}

// Initialize seeds default users and books so the loan form has
// something to offer.
func (m *MockAPI) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.usuarios[1] = models.Usuario{ID: 1, Nome: "Ana", Email: "ana@example.com"}
	m.usuarios[2] = models.Usuario{ID: 2, Nome: "Bruno", Email: "bruno@example.com"}

	ano := 1899
	m.livros[1] = models.Livro{ID: 1, Titulo: "Dom Casmurro", Autor: "Machado de Assis", Ano: &ano, Categoria: "Romance", Quantidade: 2}
	m.livros[2] = models.Livro{ID: 2, Titulo: "Vidas Secas", Autor: "Graciliano Ramos", Categoria: "Romance", Quantidade: 0}
	m.nextID = 3

	return nil
}

// Login accepts any seeded user's email with any non-empty password.
func (m *MockAPI) Login(ctx context.Context, email, senha string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if senha == "" {
		return models.Session{}, &library.APIError{Status: http.StatusBadRequest, Message: "Campos 'email' e 'senha' são obrigatórios"}
	}
	for _, u := range m.usuarios {
		if u.Email == email {
			m.token = fmt.Sprintf("mock-token-%d", u.ID)
			return models.Session{Token: m.token, Nome: u.Nome}, nil
		}
	}
	return models.Session{}, &library.APIError{Status: http.StatusUnauthorized, Message: "Credenciais inválidas"}
}

func (m *MockAPI) Register(ctx context.Context, nome, email, senha string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if nome == "" || email == "" || senha == "" {
		return "", &library.APIError{Status: http.StatusBadRequest, Message: "Campos 'nome', 'email' e 'senha' são obrigatórios"}
	}
	for _, u := range m.usuarios {
		if u.Email == email {
			return "", &library.APIError{Status: http.StatusBadRequest, Message: "Email já cadastrado"}
		}
	}
	id := m.nextID
	m.nextID++
	m.usuarios[id] = models.Usuario{ID: id, Nome: nome, Email: email}
	return "Usuário registrado com sucesso", nil
}

func (m *MockAPI) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *MockAPI) ListBooks(ctx context.Context) ([]models.Livro, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	livros := make([]models.Livro, 0, len(m.livros))
	for _, l := range m.livros {
		livros = append(livros, l)
	}
	sort.Slice(livros, func(i, j int) bool { return livros[i].ID < livros[j].ID })
	return livros, nil
}

func (m *MockAPI) CreateBook(ctx context.Context, livro models.Livro) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if livro.Titulo == "" || livro.Autor == "" {
		return "", &library.APIError{Status: http.StatusBadRequest, Message: "Campos 'titulo' e 'autor' são obrigatórios"}
	}
	livro.ID = m.nextID
	m.nextID++
	m.livros[livro.ID] = livro
	return fmt.Sprintf("Livro '%s' adicionado com sucesso!", livro.Titulo), nil
}

func (m *MockAPI) UpdateBook(ctx context.Context, id int, livro models.Livro) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.livros[id]; !ok {
		return "", &library.APIError{Status: http.StatusNotFound, Message: "Livro não encontrado"}
	}
	livro.ID = id
	m.livros[id] = livro
	return fmt.Sprintf("Livro '%s' atualizado com sucesso!", livro.Titulo), nil
}

func (m *MockAPI) DeleteBook(ctx context.Context, id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	livro, ok := m.livros[id]
	if !ok {
		return "", &library.APIError{Status: http.StatusNotFound, Message: "Livro não encontrado"}
	}
	delete(m.livros, id)
	return fmt.Sprintf("Livro '%s' removido com sucesso!", livro.Titulo), nil
}

func (m *MockAPI) ListUsers(ctx context.Context) ([]models.Usuario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usuarios := make([]models.Usuario, 0, len(m.usuarios))
	for _, u := range m.usuarios {
		usuarios = append(usuarios, u)
	}
	sort.Slice(usuarios, func(i, j int) bool { return usuarios[i].ID < usuarios[j].ID })
	return usuarios, nil
}

func (m *MockAPI) ListLoans(ctx context.Context) ([]models.LoanView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	views := make([]models.LoanView, 0, len(m.loans))
	for _, e := range m.loans {
		views = append(views, models.ResolveLoan(e))
	}
	return views, nil
}

func (m *MockAPI) CreateLoan(ctx context.Context, usuarioID, livroID, dataPrevista string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uid, err := strconv.Atoi(usuarioID)
	if err != nil {
		return "", &library.APIError{Status: http.StatusNotFound, Message: "Usuário não encontrado"}
	}
	usuario, ok := m.usuarios[uid]
	if !ok {
		return "", &library.APIError{Status: http.StatusNotFound, Message: "Usuário não encontrado"}
	}

	lid, err := strconv.Atoi(livroID)
	if err != nil {
		return "", &library.APIError{Status: http.StatusNotFound, Message: "Livro não encontrado"}
	}
	livro, ok := m.livros[lid]
	if !ok {
		return "", &library.APIError{Status: http.StatusNotFound, Message: "Livro não encontrado"}
	}
	if livro.Quantidade < 1 {
		return "", &library.APIError{Status: http.StatusBadRequest, Message: "Nenhuma unidade disponível deste livro"}
	}

	livro.Quantidade--
	m.livros[lid] = livro

	id := m.nextID
	m.nextID++
	m.loans = append(m.loans, models.Emprestimo{
		"id":              float64(id),
		"usuario_id":      float64(uid),
		"livro_id":        float64(lid),
		"usuario_nome":    usuario.Nome,
		"livro_titulo":    livro.Titulo,
		"data_emprestimo": time.Now().Format("2006-01-02T15:04:05"),
		"data_prevista":   dataPrevista,
		"status":          "emprestado",
	})
	return "Empréstimo criado com sucesso", nil
}

func (m *MockAPI) ReturnLoan(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.loans {
		if models.ResolveLoan(e).ID != id {
			continue
		}
		if models.ResolveLoan(e).Returned {
			return "", &library.APIError{Status: http.StatusBadRequest, Message: "Empréstimo já foi devolvido"}
		}
		e["status"] = models.StatusDevolvido
		e["data_devolucao"] = time.Now().Format("2006-01-02T15:04:05")

		if lid, err := strconv.Atoi(models.ResolveLoan(e).LivroID); err == nil {
			if livro, ok := m.livros[lid]; ok {
				livro.Quantidade++
				m.livros[lid] = livro
			}
		}
		return "Empréstimo devolvido com sucesso", nil
	}
	return "", &library.APIError{Status: http.StatusNotFound, Message: "Empréstimo não encontrado"}
}
