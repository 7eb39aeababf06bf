package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Emprestimo is a raw loan record as decoded from the API. The backend
// has shipped several variants of this payload over time, so the client
// treats it as an untrusted bag of fields and resolves display values
// through ordered name probes instead of a fixed schema.
type Emprestimo map[string]any

// StatusDevolvido is the terminal loan status reported by the backend.
const StatusDevolvido = "devolvido"

// LoanView is the display projection of a loan. All date fields keep the
// server's string form; formatting happens at render time.
type LoanView struct {
	ID         string
	UsuarioID  string
	LivroID    string
	UserName   string
	BookTitle  string
	LoanDate   string
	DueDate    string
	ReturnDate string
	Status     string
	Returned   bool
}

// Probe orders per logical field, first present value wins. Nested
// object variants ("usuario": {"nome": ...}) are handled by firstPresent.
var (
	loanUserKeys   = []string{"usuario_nome", "nome_usuario", "user_nome", "usuario", "nome"}
	loanBookKeys   = []string{"livro_titulo", "titulo_livro", "livro", "titulo"}
	loanDateKeys   = []string{"data_emprestimo", "data_criacao", "created_at"}
	dueDateKeys    = []string{"data_prevista", "data_devolucao_prevista", "devolucao_prevista"}
	returnDateKeys = []string{"data_devolucao", "data_retorno", "devolvido_em"}
	statusKeys     = []string{"status", "situacao"}
)

// ResolveLoan turns a raw loan payload into its display projection.
// A loan counts as returned when any return-date variant is populated or
// the status field says so; everything else is an active loan.
func ResolveLoan(raw Emprestimo) LoanView {
	v := LoanView{
		ID:         stringify(raw["id"]),
		UsuarioID:  stringify(raw["usuario_id"]),
		LivroID:    stringify(raw["livro_id"]),
		UserName:   firstPresent(raw, loanUserKeys, "nome"),
		BookTitle:  firstPresent(raw, loanBookKeys, "titulo"),
		LoanDate:   firstPresent(raw, loanDateKeys, ""),
		DueDate:    firstPresent(raw, dueDateKeys, ""),
		ReturnDate: firstPresent(raw, returnDateKeys, ""),
		Status:     firstPresent(raw, statusKeys, ""),
	}
	v.Returned = v.ReturnDate != "" || strings.EqualFold(v.Status, StatusDevolvido)
	return v
}

// firstPresent walks keys in order and returns the first value that is
// actually there: non-nil and, for strings, non-empty. When the value is
// a nested object, nestedKey is looked up inside it.
func firstPresent(raw Emprestimo, keys []string, nestedKey string) string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if nested, isMap := value.(map[string]any); isMap {
			if nestedKey == "" {
				continue
			}
			if s := stringify(nested[nestedKey]); s != "" {
				return s
			}
			continue
		}
		if s := stringify(value); s != "" {
			return s
		}
	}
	return ""
}

// stringify renders a scalar JSON value as display text. Numbers are
// printed without a decimal point when they are whole, matching the ids
// the backend emits.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
