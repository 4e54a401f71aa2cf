package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"fondeo/entity"
	"fondeo/lib/sl"
)

// Callback data prefixes for the approval buttons. Telegram limits
// callback data to 64 bytes, so prefixes are kept short.
// Format: prefix + top-up id (e.g., "ap:123").
const (
	cbApprove = "ap:"
	cbReject  = "rj:"
)

func approvalKeyboard(topUpId int64) tgbotapi.InlineKeyboardMarkup {
	idStr := strconv.FormatInt(topUpId, 10)
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: "Approve ✓", CallbackData: cbApprove + idStr},
				{Text: "Reject ✗", CallbackData: cbReject + idStr},
			},
		},
	}
}

// AnnounceTopUp posts a pending top-up with approve/reject buttons to
// the staff chat and returns the message coordinates for later
// retraction.
func (t *TgBot) AnnounceTopUp(topUp *entity.TopUpRequest, account *entity.Account) (*entity.MessageRef, error) {
	text := fmt.Sprintf("Top-up #%d\n%s (%s)\nAmount: %s",
		topUp.ID, account.FullName, account.Phone, topUp.Amount.StringFixed(2))
	if topUp.PromoCode != "" {
		text += fmt.Sprintf("\nPromo: %s (+%s)", topUp.PromoCode, topUp.PromoBonus.StringFixed(2))
	}
	if topUp.Receipt != "" {
		text += "\nReceipt: " + topUp.Receipt
	}

	kb := approvalKeyboard(topUp.ID)
	msg, err := t.api.SendMessage(t.chatId, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: kb,
	})
	if err != nil {
		return nil, fmt.Errorf("send approval message: %w", err)
	}
	return &entity.MessageRef{
		TopUpID:   topUp.ID,
		ChatId:    msg.Chat.Id,
		MessageId: msg.MessageId,
	}, nil
}

// RetractControl strips the approve/reject buttons from a posted
// control once the request is resolved, so a stale button press cannot
// arrive from that message again.
func (t *TgBot) RetractControl(ref *entity.MessageRef) error {
	_, _, err := t.api.EditMessageReplyMarkup(&tgbotapi.EditMessageReplyMarkupOpts{
		ChatId:      ref.ChatId,
		MessageId:   ref.MessageId,
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	})
	if err != nil {
		return fmt.Errorf("edit reply markup: %w", err)
	}
	return nil
}

// plainResponse sends a text message ignoring delivery errors beyond a
// log line.
func (t *TgBot) plainResponse(chatId int64, text string) {
	_, err := t.api.SendMessage(chatId, text, nil)
	if err != nil {
		t.log.Warn("send message", sl.Err(err))
	}
}
