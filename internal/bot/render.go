package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bibliobot/internal/models"
)

// formatBookLine renders one catalog row in the shape the original list
// used: titulo - autor (ano) [categoria] - Qtd: n.
func formatBookLine(idx int, l models.Livro) string {
	ano := ""
	if l.Ano != nil {
		ano = strconv.Itoa(*l.Ano)
	}
	return fmt.Sprintf("%d. %s - %s (%s) [%s] - Qtd: %d", idx, l.Titulo, l.Autor, ano, l.Categoria, l.Quantidade)
}

// formatLoanLine renders one loan row from its resolved view. Returned
// loans carry an inert marker instead of an action.
func formatLoanLine(idx int, v models.LoanView) string {
	user := v.UserName
	if user == "" {
		user = datePlaceholder
	}
	book := v.BookTitle
	if book == "" {
		book = datePlaceholder
	}

	line := fmt.Sprintf("%d. 📖 %s → %s\n    Empréstimo: %s | Previsto: %s",
		idx, book, user, FormatDate(v.LoanDate), FormatDate(v.DueDate))

	if v.Returned {
		line += fmt.Sprintf("\n    ✔ devolvido (%s)", FormatDate(v.ReturnDate))
	}
	return line
}

// sendBookList fetches and renders the catalog with edit/remove actions
// per row. Empty and failed loads both render a one-line placeholder;
// the log gets the detail, the user gets the generic text.
func (b *Bot) sendBookList(ctx context.Context, chatID int64) {
	livros, err := b.client.ListBooks(ctx)
	if err != nil {
		b.logger.Error("Failed to load book list", zap.Error(err))
		b.sendText(chatID, "Não foi possível carregar os livros.")
		return
	}
	if len(livros) == 0 {
		b.sendText(chatID, "Nenhum livro cadastrado.")
		return
	}

	var text strings.Builder
	text.WriteString("📚 Livros cadastrados:\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, l := range livros {
		text.WriteString(formatBookLine(i+1, l))
		text.WriteByte('\n')

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏️ Editar %d", i+1), cbBookEdit+strconv.Itoa(l.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 Remover %d", i+1), cbBookDelete+strconv.Itoa(l.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// sendLoanList fetches and renders the loans. Only active loans get a
// return action.
func (b *Bot) sendLoanList(ctx context.Context, chatID int64) {
	loans, err := b.client.ListLoans(ctx)
	if err != nil {
		b.logger.Error("Failed to load loan list", zap.Error(err))
		b.sendText(chatID, "Não foi possível carregar os empréstimos.")
		return
	}
	if len(loans) == 0 {
		b.sendText(chatID, "Nenhum empréstimo registrado.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Empréstimos:\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, v := range loans {
		text.WriteString(formatLoanLine(i+1, v))
		text.WriteByte('\n')

		if !v.Returned && v.ID != "" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("↩️ Devolver %d", i+1), cbLoanReturn+v.ID),
			))
		}
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	b.sendMessage(msg)
}

// buildUserOptionsKeyboard lists the selectable users for the loan form.
func buildUserOptionsKeyboard(usuarios []models.Usuario) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, u := range usuarios {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 "+u.Nome, cbLoanUser+strconv.Itoa(u.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildBookOptionsKeyboard lists all books; titles without units stay
// visible but are marked unavailable and do not advance the form.
func buildBookOptionsKeyboard(livros []models.Livro) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range livros {
		if l.Disponivel() {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📖 "+l.Titulo, cbLoanBook+strconv.Itoa(l.ID)),
			))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🚫 "+l.Titulo+" (indisponível)", cbLoanBookNA),
			))
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
