package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bibliobot/internal/library"
	"bibliobot/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, zap.NewNop())
}

func TestClient_AuthHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[]`))
	}))
	ctx := context.Background()

	_, err := client.ListBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Empty(t, gotAuth, "no Authorization header before login")

	client.SetToken("abc123")
	_, err = client.ListBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_LoginStoresToken(t *testing.T) {
	var loanAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "segredo", body["senha"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"usuario":      map[string]any{"id": 1, "nome": "Ana", "email": "ana@example.com"},
		})
	})
	mux.HandleFunc("/emprestimos", func(w http.ResponseWriter, r *http.Request) {
		loanAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	sess, err := client.Login(ctx, "ana@example.com", "segredo")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "Ana", sess.Nome)
	assert.Equal(t, "tok-1", client.Token())

	_, err = client.ListLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", loanAuth, "token from login rides on the next request")
}

func TestClient_LoginRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"erro": "Credenciais inválidas"}`))
	}))

	_, err := client.Login(context.Background(), "x@example.com", "errada")
	var apiErr *library.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Credenciais inválidas", apiErr.Message)
	assert.Empty(t, client.Token())
}

func TestClient_ListUsersFallbackChain(t *testing.T) {
	t.Run("first endpoint wins", func(t *testing.T) {
		var paths []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			w.Write([]byte(`[{"id": 1, "nome": "Ana", "email": "ana@example.com"}]`))
		}))

		usuarios, err := client.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, usuarios, 1)
		assert.Equal(t, "Ana", usuarios[0].Nome)
		assert.Equal(t, []string{"/usuarios"}, paths, "later candidates must not be probed")
	})

	t.Run("probes in order until one answers", func(t *testing.T) {
		var paths []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path != "/auth/usuarios" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`[{"id": 2, "nome": "Bruno", "email": "bruno@example.com"}]`))
		}))

		usuarios, err := client.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, usuarios, 1)
		assert.Equal(t, "Bruno", usuarios[0].Nome)
		assert.Equal(t, []string{"/usuarios", "/users", "/auth/usuarios"}, paths)
	})

	t.Run("profile wraps as one-element list when all fail", func(t *testing.T) {
		var paths []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path != "/auth/perfil" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"id": 7, "nome": "Carla", "email": "carla@example.com"}`))
		}))

		usuarios, err := client.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, usuarios, 1)
		assert.Equal(t, 7, usuarios[0].ID)
		assert.Equal(t, []string{"/usuarios", "/users", "/auth/usuarios", "/auth/users", "/auth/perfil"}, paths)
	})

	t.Run("profile failure surfaces an error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"erro": "Token inválido"}`))
		}))

		_, err := client.ListUsers(context.Background())
		var apiErr *library.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Token inválido", apiErr.Message)
	})
}

func TestClient_CreateLoanCoercesIDs(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"mensagem": "Empréstimo criado com sucesso"}`))
	}))
	ctx := context.Background()

	msg, err := client.CreateLoan(ctx, "3", "12", "2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, "Empréstimo criado com sucesso", msg)
	// Numeric-looking ids go over the wire as numbers.
	assert.Equal(t, float64(3), body["usuario_id"])
	assert.Equal(t, float64(12), body["livro_id"])
	assert.Equal(t, "2026-09-15", body["data_prevista"])

	_, err = client.CreateLoan(ctx, "abc-7", "12", "2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, "abc-7", body["usuario_id"], "opaque ids are sent verbatim")
}

func TestClient_ReturnLoan(t *testing.T) {
	t.Run("PUT succeeds without fallback", func(t *testing.T) {
		var calls []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			w.Write([]byte(`{"mensagem": "Empréstimo devolvido com sucesso"}`))
		}))

		msg, err := client.ReturnLoan(context.Background(), "5")
		require.NoError(t, err)
		assert.Equal(t, "Empréstimo devolvido com sucesso", msg)
		assert.Equal(t, []string{"PUT /emprestimos/5/devolver"}, calls)
	})

	t.Run("405 retries POST variant exactly once", func(t *testing.T) {
		var calls []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			if r.Method == http.MethodPut {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Write([]byte(`{"mensagem": "Devolvido"}`))
		}))

		msg, err := client.ReturnLoan(context.Background(), "5")
		require.NoError(t, err)
		assert.Equal(t, "Devolvido", msg)
		assert.Equal(t, []string{"PUT /emprestimos/5/devolver", "POST /devolver/5"}, calls)
	})

	t.Run("other statuses do not trigger the fallback", func(t *testing.T) {
		var calls []string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"erro": "Empréstimo já foi devolvido"}`))
		}))

		_, err := client.ReturnLoan(context.Background(), "5")
		var apiErr *library.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Empréstimo já foi devolvido", apiErr.Message)
		assert.Equal(t, []string{"PUT /emprestimos/5/devolver"}, calls)
	})

	t.Run("fallback failure keeps the primary message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				w.WriteHeader(http.StatusMethodNotAllowed)
				w.Write([]byte(`{"erro": "Use o endpoint de devolução"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.ReturnLoan(context.Background(), "5")
		var apiErr *library.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "Use o endpoint de devolução", apiErr.Message)
	})
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))

	_, err := client.ListBooks(context.Background())
	var apiErr *library.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message, "plain-text bodies become the message")
}

func TestClient_BookRoutes(t *testing.T) {
	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"mensagem": "ok"}`))
	}))
	ctx := context.Background()

	livro := models.Livro{Titulo: "Dom Casmurro", Autor: "Machado de Assis", Quantidade: 2}
	_, err := client.CreateBook(ctx, livro)
	require.NoError(t, err)
	_, err = client.UpdateBook(ctx, 4, livro)
	require.NoError(t, err)
	_, err = client.DeleteBook(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /add_livro",
		"PUT /update_livro/4",
		"DELETE /delete_livro/4",
	}, calls)
}
