package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callback data vocabulary. Prefixed entries carry an id after the colon.
const (
	cbBookEdit      = "book_edit:"
	cbBookDelete    = "book_del:"
	cbConfirmDelete = "confirm_del:"
	cbBookSave      = "book_save"
	cbBookCancel    = "book_cancel"
	cbLoanUser      = "loan_user:"
	cbLoanBook      = "loan_book:"
	cbLoanBookNA    = "loan_book_na"
	cbLoanDate      = "loan_date:"
	cbLoanReturn    = "loan_ret:"
	cbConfirmReturn = "confirm_ret:"
	cbDismiss       = "dismiss"
)

// handleBookEditCallback enters edit mode: the form is pre-filled with
// the record's current values and the mode flag flips.
func (b *Bot) handleBookEditCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id, err := strconv.Atoi(strings.TrimPrefix(query.Data, cbBookEdit))
	if err != nil {
		return
	}

	livros, err := b.client.ListBooks(ctx)
	if err != nil {
		b.logger.Error("Failed to load book for editing", zap.Error(err))
		b.notify(query.Message.Chat.ID, "Não foi possível carregar o livro.", notifyError, notifyDuration)
		return
	}

	for _, l := range livros {
		if l.ID != id {
			continue
		}

		data := map[string]interface{}{
			"titulo":     l.Titulo,
			"autor":      l.Autor,
			"categoria":  l.Categoria,
			"quantidade": l.Quantidade,
		}
		if l.Ano != nil {
			data["ano"] = *l.Ano
		}

		b.setState(query.From.ID, &ConversationState{
			Command:   convBookForm,
			Step:      1,
			Data:      data,
			Editing:   true,
			EditingID: l.ID,
		})

		b.sendText(query.Message.Chat.ID,
			"✏️ Editando \""+l.Titulo+"\". Envie - para manter o valor atual.\n\n"+
				"📖 Título (atual: "+l.Titulo+"):")
		return
	}

	b.notify(query.Message.Chat.ID, "Livro não encontrado.", notifyError, notifyDuration)
}

// handleBookDeleteCallback asks for confirmation before deleting.
func (b *Bot) handleBookDeleteCallback(query *tgbotapi.CallbackQuery) {
	id := strings.TrimPrefix(query.Data, cbBookDelete)

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Tem certeza que deseja remover este livro?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Sim", cbConfirmDelete+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ Não", cbDismiss),
		),
	)
	b.sendMessage(msg)
}

// handleConfirmDeleteCallback issues the DELETE after confirmation.
func (b *Bot) handleConfirmDeleteCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id, err := strconv.Atoi(strings.TrimPrefix(query.Data, cbConfirmDelete))
	if err != nil {
		return
	}

	chatID := query.Message.Chat.ID
	msg, err := b.client.DeleteBook(ctx, id)
	if err != nil {
		b.logger.Error("Failed to delete book", zap.Int("id", id), zap.Error(err))
		b.notify(chatID, userErrorText(err, "Não foi possível remover o livro."), notifyError, notifyDuration)
		return
	}
	if msg == "" {
		msg = "Livro removido com sucesso!"
	}
	b.notify(chatID, msg, notifySuccess, notifyDuration)
	b.sendBookList(ctx, chatID)
}

// handleBookSaveCallback is the single submit dispatcher of the book
// form: the mode flag decides between create and update.
func (b *Bot) handleBookSaveCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != convBookForm || state.Step != 6 {
		return
	}
	b.finishBookForm(ctx, query.Message.Chat.ID, state)
}

// handleBookCancelCallback abandons the form and resets edit mode.
func (b *Bot) handleBookCancelCallback(query *tgbotapi.CallbackQuery, state *ConversationState) {
	state.Editing = false
	state.EditingID = 0
	state.Step = -1
	b.notify(query.Message.Chat.ID, "Formulário cancelado.", notifyInfo, notifyDuration)
}

// handleLoanUserCallback stores the selected user and shows the book
// options, unavailable ones included but disabled.
func (b *Bot) handleLoanUserCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != convLoan || state.Step != 1 {
		return
	}
	state.Data["usuario_id"] = strings.TrimPrefix(query.Data, cbLoanUser)
	state.Step = 2

	livros, err := b.client.ListBooks(ctx)
	if err != nil {
		b.logger.Error("Failed to load book options", zap.Error(err))
		b.sendText(query.Message.Chat.ID, "Não foi possível carregar os livros.")
		state.Step = -1
		return
	}
	if len(livros) == 0 {
		b.sendText(query.Message.Chat.ID, "Nenhum livro cadastrado.")
		state.Step = -1
		return
	}

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "📚 Selecione o livro:")
	msg.ReplyMarkup = buildBookOptionsKeyboard(livros)
	b.sendMessage(msg)
}

// handleLoanBookCallback stores the selected book and asks for the due
// date, quick options first.
func (b *Bot) handleLoanBookCallback(query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != convLoan || state.Step != 2 {
		return
	}
	state.Data["livro_id"] = strings.TrimPrefix(query.Data, cbLoanBook)
	state.Step = 3

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "📅 Data prevista de devolução:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Em 1 semana", cbLoanDate+"7"),
			tgbotapi.NewInlineKeyboardButtonData("Em 2 semanas", cbLoanDate+"14"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Em 1 mês", cbLoanDate+"30"),
			tgbotapi.NewInlineKeyboardButtonData("📝 Outra data", cbLoanDate+"custom"),
		),
	)
	b.sendMessage(msg)
}

// handleLoanDateCallback resolves a quick date pick or switches to
// custom date input.
func (b *Bot) handleLoanDateCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != convLoan || state.Step != 3 {
		return
	}
	data := strings.TrimPrefix(query.Data, cbLoanDate)

	if data == "custom" {
		state.Data["awaiting_custom_date"] = true
		b.sendText(query.Message.Chat.ID, "📝 Informe a data no formato YYYY-MM-DD\n\nExemplo: 2026-09-15")
		return
	}

	days, err := strconv.Atoi(data)
	if err != nil {
		return
	}
	state.Data["data_prevista"] = time.Now().AddDate(0, 0, days).Format("2006-01-02")
	b.submitLoan(ctx, query.Message.Chat.ID, state)
}

// handleLoanReturnCallback asks for confirmation before returning.
func (b *Bot) handleLoanReturnCallback(query *tgbotapi.CallbackQuery) {
	id := strings.TrimPrefix(query.Data, cbLoanReturn)

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Confirmar a devolução deste empréstimo?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Sim", cbConfirmReturn+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ Não", cbDismiss),
		),
	)
	b.sendMessage(msg)
}

// handleConfirmReturnCallback closes the loan. The 405 fallback lives in
// the client; success refreshes the loan and book views.
func (b *Bot) handleConfirmReturnCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	id := strings.TrimPrefix(query.Data, cbConfirmReturn)
	chatID := query.Message.Chat.ID

	msg, err := b.client.ReturnLoan(ctx, id)
	if err != nil {
		b.logger.Error("Failed to return loan", zap.String("id", id), zap.Error(err))
		b.notify(chatID, userErrorText(err, "Não foi possível registrar a devolução."), notifyError, notifyDuration)
		return
	}
	if msg == "" {
		msg = "Devolução registrada com sucesso!"
	}
	b.notify(chatID, msg, notifySuccess, notifyDuration)
	b.sendLoanList(ctx, chatID)
	b.sendBookList(ctx, chatID)
}
