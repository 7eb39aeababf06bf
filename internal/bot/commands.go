package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleStart shows the welcome message and available commands
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	greeting := "Bem-vindo à Biblioteca! 📚"
	if _, nome, err := b.sessions.Load(ctx); err == nil && nome != "" {
		greeting = fmt.Sprintf("Bem-vindo(a) de volta, %s! 📚", nome)
	}

	b.sendText(message.Chat.ID, greeting+"\n\n"+mainMenuText)
}

// sendMainMenu is the post-login landing view.
func (b *Bot) sendMainMenu(chatID int64) {
	b.sendText(chatID, mainMenuText)
}

const mainMenuText = `Comandos disponíveis:
/login - Entrar na sua conta
/register - Criar uma conta
/logout - Sair da conta
/livros - Listar livros do acervo
/novo_livro - Cadastrar um novo livro
/emprestimos - Listar empréstimos
/emprestar - Registrar um empréstimo`

// handleLoginStart initiates the login conversation
func (b *Bot) handleLoginStart(message *tgbotapi.Message) {
	b.setState(message.From.ID, &ConversationState{
		Command: convLogin,
		Step:    1,
		Data:    make(map[string]interface{}),
	})
	b.sendText(message.Chat.ID, "Informe seu e-mail:")
}

// handleRegisterStart initiates the account registration conversation
func (b *Bot) handleRegisterStart(message *tgbotapi.Message) {
	b.setState(message.From.ID, &ConversationState{
		Command: convRegister,
		Step:    1,
		Data:    make(map[string]interface{}),
	})
	b.sendText(message.Chat.ID, "Informe seu nome:")
}

// handleLogout clears the persisted session and the in-memory token.
func (b *Bot) handleLogout(ctx context.Context, message *tgbotapi.Message) {
	if err := b.sessions.Clear(ctx); err != nil {
		b.logger.Error("Failed to clear session", zap.Error(err))
		b.notify(message.Chat.ID, "Não foi possível sair da conta.", notifyError, notifyDuration)
		return
	}
	b.client.SetToken("")
	b.notify(message.Chat.ID, "Você saiu da conta.", notifyInfo, notifyDuration)
}

// handleNewBookStart opens the book form in add mode.
func (b *Bot) handleNewBookStart(message *tgbotapi.Message) {
	b.setState(message.From.ID, &ConversationState{
		Command: convBookForm,
		Step:    1,
		Data:    make(map[string]interface{}),
	})
	b.sendText(message.Chat.ID, "📖 Título do livro:")
}

// handleLoanStart opens the loan form: user selection first, fed by the
// endpoint fallback chain inside the client.
func (b *Bot) handleLoanStart(ctx context.Context, message *tgbotapi.Message) {
	usuarios, err := b.client.ListUsers(ctx)
	if err != nil {
		b.logger.Error("Failed to load user options", zap.Error(err))
		b.sendText(message.Chat.ID, "Nenhum usuário disponível.")
		return
	}
	if len(usuarios) == 0 {
		b.sendText(message.Chat.ID, "Nenhum usuário disponível.")
		return
	}

	b.setState(message.From.ID, &ConversationState{
		Command: convLoan,
		Step:    1,
		Data:    make(map[string]interface{}),
	})

	msg := tgbotapi.NewMessage(message.Chat.ID, "👤 Selecione o usuário:")
	msg.ReplyMarkup = buildUserOptionsKeyboard(usuarios)
	b.sendMessage(msg)
}
