package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bibliobot/internal/models"
)

// fieldPrompt renders a form prompt. In edit mode the current value is
// shown so "-" has something to keep.
func (b *Bot) fieldPrompt(state *ConversationState, prompt, key string) string {
	if !state.Editing {
		return prompt
	}
	if value, ok := state.Data[key]; ok && fmt.Sprintf("%v", value) != "" {
		return fmt.Sprintf("%s (atual: %v, - para manter)", prompt, value)
	}
	return prompt
}

// livroFromState assembles the record the form collected.
func livroFromState(state *ConversationState) models.Livro {
	livro := models.Livro{}
	livro.Titulo, _ = state.Data["titulo"].(string)
	livro.Autor, _ = state.Data["autor"].(string)
	livro.Categoria, _ = state.Data["categoria"].(string)
	if ano, ok := state.Data["ano"].(int); ok {
		livro.Ano = &ano
	}
	if qtd, ok := state.Data["quantidade"].(int); ok {
		livro.Quantidade = qtd
	} else {
		livro.Quantidade = 1
	}
	return livro
}

// sendBookFormSummary shows the collected record with save/cancel
// actions. Keeping the submit behind a button means a failed create
// leaves the form populated for another attempt.
func (b *Bot) sendBookFormSummary(chatID int64, state *ConversationState) {
	livro := livroFromState(state)

	action := "Cadastrar"
	if state.Editing {
		action = "Atualizar"
	}

	ano := ""
	if livro.Ano != nil {
		ano = fmt.Sprintf("%d", *livro.Ano)
	}

	text := fmt.Sprintf("%s livro?\n\n%s - %s (%s) [%s] - Qtd: %d",
		action, livro.Titulo, livro.Autor, ano, livro.Categoria, livro.Quantidade)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Salvar", cbBookSave),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancelar", cbBookCancel),
		),
	)
	b.sendMessage(msg)
}

// finishBookForm is the single submit dispatcher for both form modes.
//
// Add mode: a failure keeps the form (and its values) open for another
// attempt. Edit mode: edit state is cleared and the list reloaded on
// success AND failure alike, mirroring the original front end, which
// meant a failed edit also threw away the user's changes.
func (b *Bot) finishBookForm(ctx context.Context, chatID int64, state *ConversationState) {
	livro := livroFromState(state)

	if state.Editing {
		id := state.EditingID

		msg, err := b.client.UpdateBook(ctx, id, livro)
		if err != nil {
			b.logger.Error("Failed to update book", zap.Int("id", id), zap.Error(err))
			b.notify(chatID, userErrorText(err, "Não foi possível atualizar o livro."), notifyError, notifyDuration)
		} else {
			if msg == "" {
				msg = "Livro atualizado com sucesso!"
			}
			b.notify(chatID, msg, notifySuccess, notifyDuration)
		}

		// Cleanup runs regardless of outcome.
		state.Editing = false
		state.EditingID = 0
		state.Step = -1
		b.sendBookList(ctx, chatID)
		return
	}

	msg, err := b.client.CreateBook(ctx, livro)
	if err != nil {
		b.logger.Error("Failed to create book", zap.String("titulo", livro.Titulo), zap.Error(err))
		b.notify(chatID, userErrorText(err, "Não foi possível cadastrar o livro."), notifyError, notifyDuration)
		// Form stays populated; the user can hit Salvar again.
		return
	}
	if msg == "" {
		msg = "Livro cadastrado com sucesso!"
	}
	state.Step = -1
	b.notify(chatID, msg, notifySuccess, notifyDuration)
	b.sendBookList(ctx, chatID)
}

// submitLoan re-validates the due date and creates the loan. The bound
// is checked here even for keyboard picks, so a bypassed interface
// still cannot submit an invalid date.
func (b *Bot) submitLoan(ctx context.Context, chatID int64, state *ConversationState) {
	usuarioID, _ := state.Data["usuario_id"].(string)
	livroID, _ := state.Data["livro_id"].(string)
	dataPrevista, _ := state.Data["data_prevista"].(string)

	if usuarioID == "" || livroID == "" {
		b.notify(chatID, "Selecione o usuário e o livro antes de confirmar.", notifyError, notifyDuration)
		return
	}

	normalized, err := ValidateDueDate(dataPrevista, time.Now())
	if err != nil {
		b.notify(chatID, err.Error(), notifyError, notifyDuration)
		return
	}

	state.Step = -1

	msg, err := b.client.CreateLoan(ctx, usuarioID, livroID, normalized)
	if err != nil {
		b.logger.Error("Failed to create loan",
			zap.String("usuario_id", usuarioID),
			zap.String("livro_id", livroID),
			zap.Error(err),
		)
		b.notify(chatID, userErrorText(err, "Não foi possível registrar o empréstimo."), notifyError, notifyDuration)
		return
	}
	if msg == "" {
		msg = "Empréstimo registrado com sucesso!"
	}
	b.notify(chatID, msg, notifySuccess, notifyDuration)

	// Loan creation decrements availability server-side, so the
	// dependent views are re-fetched.
	b.sendLoanList(ctx, chatID)
	b.sendBookList(ctx, chatID)
}
