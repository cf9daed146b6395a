package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mroshb/roommatch/internal/models"
)

// Callback data prefixes for match decisions
const (
	CallbackAccept = "match_accept_"
	CallbackReject = "match_reject_"
)

// MainMenuKeyboard creates the main menu keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMatches),
			tgbotapi.NewKeyboardButton(BtnGenerate),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnHelp),
		),
	)
}

// MatchDecisionKeyboard creates the accept/reject buttons of one match
func MatchDecisionKeyboard(matchID uint) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatUint(uint64(matchID), 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Accept", CallbackAccept+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", CallbackReject+id),
		),
	)
}

// parseDecision splits callback data into a decision and a match id
func parseDecision(data string) (decision string, matchID uint, ok bool) {
	raw, found := strings.CutPrefix(data, CallbackAccept)
	decision = models.DecisionAccept
	if !found {
		raw, found = strings.CutPrefix(data, CallbackReject)
		decision = models.DecisionReject
	}
	if !found {
		return "", 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return "", 0, false
	}
	return decision, uint(id), true
}
