package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/roommatch/internal/config"
	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
)

const (
	workerCount    = 10
	maxListed      = 10
	requestTimeout = 15 * time.Second
)

// AccountLinker binds Telegram users to accounts
type AccountLinker interface {
	LinkTelegram(ctx context.Context, code string, telegramID int64) (*models.User, error)
	UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

type Matcher interface {
	GenerateMatches(ctx context.Context, userID uint) ([]services.GeneratedMatch, error)
	Respond(ctx context.Context, matchID, userID uint, decision string) (*models.Match, error)
	ListMatches(ctx context.Context, userID uint) ([]services.MatchView, error)
}

// sender is the part of the Bot API the handlers use
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	client  *tgbotapi.BotAPI
	api     sender
	config  *config.Config
	linker  AccountLinker
	matches Matcher

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, linker AccountLinker, matches Matcher) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		client.Debug = true
	}

	logger.Info("Authorized on account", "username", client.Self.UserName)

	bot := newBot(client, cfg, linker, matches)
	bot.client = client

	// Start workers
	bot.workerChans = make([]chan tgbotapi.Update, workerCount)
	for i := range bot.workerChans {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	// Start update listener
	go bot.startUpdateListener()

	return bot, nil
}

func newBot(api sender, cfg *config.Config, linker AccountLinker, matches Matcher) *Bot {
	return &Bot{
		api:     api,
		config:  cfg,
		linker:  linker,
		matches: matches,
	}
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	for update := range updates {
		var userID int64
		if update.Message != nil && update.Message.From != nil {
			userID = update.Message.From.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
		}

		if userID == 0 {
			continue
		}

		// Hashed dispatch keeps each user's updates in order
		workerIdx := userID % int64(len(b.workerChans))
		if workerIdx < 0 {
			workerIdx = -workerIdx
		}
		b.workerChans[workerIdx] <- update
	}

	logger.Info("Update channel closed")
	for _, ch := range b.workerChans {
		close(ch)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

// Stop ends the long polling loop and lets the workers drain
func (b *Bot) Stop() {
	if b.client != nil {
		b.client.StopReceivingUpdates()
	}
	logger.Info("Bot stopped receiving updates")
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	logger.Debug("Received message", "user_id", message.From.ID, "text", message.Text)

	if message.IsCommand() {
		b.handleCommand(ctx, message.From.ID, message.Command(), message.CommandArguments())
		return
	}

	switch strings.TrimSpace(message.Text) {
	case BtnMatches:
		b.handleCommand(ctx, message.From.ID, "matches", "")
	case BtnGenerate:
		b.handleCommand(ctx, message.From.ID, "generate", "")
	default:
		b.handleCommand(ctx, message.From.ID, "help", "")
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start":
		user, err := b.linker.UserByTelegramID(ctx, chatID)
		if err != nil {
			b.sendMessage(chatID, MsgWelcome, MainMenuKeyboard())
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(MsgWelcomeBack, html.EscapeString(user.FirstName)), MainMenuKeyboard())

	case "link":
		code := strings.TrimSpace(args)
		if code == "" {
			b.sendMessage(chatID, MsgLinkUsage, nil)
			return
		}
		user, err := b.linker.LinkTelegram(ctx, code, chatID)
		if err != nil {
			if errors.CodeOf(err) == errors.ErrCodeInternalError {
				logger.Error("Failed to link telegram account", "telegram_id", chatID, "error", err)
				b.sendMessage(chatID, MsgError, nil)
				return
			}
			b.sendMessage(chatID, MsgLinkFailed, nil)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(MsgLinked, html.EscapeString(user.FirstName)), MainMenuKeyboard())

	case "matches":
		user, ok := b.linkedUser(ctx, chatID)
		if !ok {
			return
		}
		b.showMatches(ctx, chatID, user.ID)

	case "generate":
		user, ok := b.linkedUser(ctx, chatID)
		if !ok {
			return
		}
		created, err := b.matches.GenerateMatches(ctx, user.ID)
		if err != nil {
			b.reportError(chatID, err)
			return
		}
		if len(created) == 0 {
			b.sendMessage(chatID, MsgGeneratedNone, nil)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(MsgGenerated, len(created)), nil)
		b.showMatches(ctx, chatID, user.ID)

	default:
		b.sendMessage(chatID, MsgHelp, MainMenuKeyboard())
	}
}

// linkedUser resolves the account of a chat and tells the user how to link
// when there is none
func (b *Bot) linkedUser(ctx context.Context, chatID int64) (*models.User, bool) {
	user, err := b.linker.UserByTelegramID(ctx, chatID)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		b.sendMessage(chatID, MsgNotLinked, nil)
		return nil, false
	}
	if err != nil {
		b.reportError(chatID, err)
		return nil, false
	}
	return user, true
}

func (b *Bot) showMatches(ctx context.Context, chatID int64, userID uint) {
	matches, err := b.matches.ListMatches(ctx, userID)
	if err != nil {
		b.reportError(chatID, err)
		return
	}

	if len(matches) == 0 {
		b.sendMessage(chatID, MsgNoMatches, nil)
		return
	}

	if len(matches) > maxListed {
		matches = matches[:maxListed]
	}
	for _, m := range matches {
		var keyboard interface{}
		if m.Status == models.MatchStatusPending {
			keyboard = MatchDecisionKeyboard(m.ID)
		}
		b.sendMessage(chatID, formatMatch(m), keyboard)
	}
}

func formatMatch(m services.MatchView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s %s</b>", html.EscapeString(m.User.FirstName), html.EscapeString(m.User.LastName))
	if m.User.Age > 0 {
		fmt.Fprintf(&sb, ", %d", m.User.Age)
	}
	if m.User.Occupation != "" {
		fmt.Fprintf(&sb, "\n💼 %s", html.EscapeString(m.User.Occupation))
	}
	fmt.Fprintf(&sb, "\n📊 Compatibility: %.0f%%", m.CompatibilityScore*100)
	fmt.Fprintf(&sb, "\n💡 %s", html.EscapeString(m.MatchReason))
	fmt.Fprintf(&sb, "\nStatus: %s", m.Status)
	return sb.String()
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	logger.Debug("Callback query", "data", query.Data, "user_id", query.From.ID)

	decision, matchID, ok := parseDecision(query.Data)
	if !ok {
		b.answerCallback(query.ID, "", false)
		return
	}

	user, err := b.linker.UserByTelegramID(ctx, query.From.ID)
	if err != nil {
		b.answerCallback(query.ID, MsgLinkFirst, true)
		return
	}

	match, err := b.matches.Respond(ctx, matchID, user.ID, decision)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrCodeNotFound:
			b.answerCallback(query.ID, MsgMatchNotFound, true)
		case errors.ErrCodeForbidden:
			b.answerCallback(query.ID, MsgMatchForbidden, true)
		case errors.ErrCodeAlreadyExists:
			b.answerCallback(query.ID, MsgMatchAnswered, true)
		default:
			logger.Error("Failed to answer match", "match_id", matchID, "error", err)
			b.answerCallback(query.ID, MsgError, true)
		}
		return
	}

	text := MsgAccepted
	if match.Status == models.MatchStatusRejected {
		text = MsgRejected
	}
	b.answerCallback(query.ID, text, false)

	// Remove the buttons of the answered match
	if query.Message != nil {
		edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		if _, err := b.api.Request(edit); err != nil {
			logger.Warn("Failed to clear match keyboard", "error", err)
		}
	}
}

func (b *Bot) reportError(chatID int64, err error) {
	switch errors.CodeOf(err) {
	case errors.ErrCodeValidation:
		b.sendMessage(chatID, MsgProfileRequired, nil)
	case errors.ErrCodeInternalError:
		logger.Error("Bot request failed", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, MsgError, nil)
	default:
		b.sendMessage(chatID, html.EscapeString(errors.PublicMessage(err)), nil)
	}
}

func (b *Bot) answerCallback(queryID, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			// If it's a network error, wait and retry
			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}
