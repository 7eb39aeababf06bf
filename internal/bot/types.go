package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bibliobot/internal/library"
	"bibliobot/internal/session"
)

// Bot is the Telegram front end of the library API.
type Bot struct {
	api          *tgbotapi.BotAPI
	client       library.Client
	sessions     *session.Store
	allowedUsers map[int64]bool
	states       map[int64]*ConversationState
	statesMu     sync.RWMutex
	logger       *zap.Logger
}

// ConversationState tracks a multi-step form in progress.
//
// Editing is the book form's mode flag: when true the submit dispatches
// an update to EditingID instead of a create. The invariant is that
// EditingID is only meaningful while Editing is true, and both reset
// when the form finishes or is cancelled.
type ConversationState struct {
	Command   string
	Step      int
	Data      map[string]interface{}
	Editing   bool
	EditingID int
}

// Conversation commands.
const (
	convLogin    = "login"
	convRegister = "register"
	convBookForm = "book_form"
	convLoan     = "loan"
)

func (b *Bot) state(userID int64) (*ConversationState, bool) {
	b.statesMu.RLock()
	defer b.statesMu.RUnlock()
	s, ok := b.states[userID]
	return s, ok
}

func (b *Bot) setState(userID int64, s *ConversationState) {
	b.statesMu.Lock()
	b.states[userID] = s
	b.statesMu.Unlock()
}

func (b *Bot) clearState(userID int64) {
	b.statesMu.Lock()
	delete(b.states, userID)
	b.statesMu.Unlock()
}
