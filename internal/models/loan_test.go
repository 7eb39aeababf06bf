package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLoan(t *testing.T) {
	testCases := []struct {
		name     string
		raw      Emprestimo
		expected LoanView
	}{
		{
			name: "canonical field names",
			raw: Emprestimo{
				"id":              float64(1),
				"usuario_id":      float64(2),
				"livro_id":        float64(3),
				"usuario_nome":    "Ana",
				"livro_titulo":    "Dom Casmurro",
				"data_emprestimo": "2026-08-01T10:00:00",
				"data_prevista":   "2026-08-15",
				"status":          "emprestado",
			},
			expected: LoanView{
				ID: "1", UsuarioID: "2", LivroID: "3",
				UserName: "Ana", BookTitle: "Dom Casmurro",
				LoanDate: "2026-08-01T10:00:00", DueDate: "2026-08-15",
				Status: "emprestado", Returned: false,
			},
		},
		{
			name: "alternate names win when canonical ones are absent",
			raw: Emprestimo{
				"id":                      "abc",
				"nome_usuario":            "Bruno",
				"titulo_livro":            "Vidas Secas",
				"data_criacao":            "2026-07-01",
				"data_devolucao_prevista": "2026-07-20",
			},
			expected: LoanView{
				ID: "abc", UserName: "Bruno", BookTitle: "Vidas Secas",
				LoanDate: "2026-07-01", DueDate: "2026-07-20",
			},
		},
		{
			name: "nested objects are probed",
			raw: Emprestimo{
				"id":      float64(7),
				"usuario": map[string]any{"id": float64(2), "nome": "Carla"},
				"livro":   map[string]any{"id": float64(3), "titulo": "Iracema"},
			},
			expected: LoanView{
				ID: "7", UserName: "Carla", BookTitle: "Iracema",
			},
		},
		{
			name: "first present value wins over later variants",
			raw: Emprestimo{
				"usuario_nome": "Primeira",
				"nome_usuario": "Segunda",
			},
			expected: LoanView{UserName: "Primeira"},
		},
		{
			name: "empty strings and nulls are not present",
			raw: Emprestimo{
				"usuario_nome": "",
				"nome_usuario": nil,
				"user_nome":    "Terceira",
			},
			expected: LoanView{UserName: "Terceira"},
		},
		{
			name: "return date implies returned",
			raw: Emprestimo{
				"id":             float64(4),
				"data_devolucao": "2026-08-10T09:30:00",
				"status":         "emprestado",
			},
			expected: LoanView{
				ID: "4", ReturnDate: "2026-08-10T09:30:00",
				Status: "emprestado", Returned: true,
			},
		},
		{
			name: "status devolvido implies returned without a date",
			raw: Emprestimo{
				"id":     float64(5),
				"status": "Devolvido",
			},
			expected: LoanView{ID: "5", Status: "Devolvido", Returned: true},
		},
		{
			name:     "no return markers means active",
			raw:      Emprestimo{"id": float64(6)},
			expected: LoanView{ID: "6", Returned: false},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveLoan(tc.raw))
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "42", stringify(float64(42)))
	assert.Equal(t, "2.5", stringify(2.5))
	assert.Equal(t, "texto", stringify("texto"))
	assert.Equal(t, "true", stringify(true))
}
