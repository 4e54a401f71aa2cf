// Package bot posts top-up approval controls to the staff Telegram chat
// and turns button presses back into ledger operations.
//
//   - tgbot.go    — TgBot struct, Core interface, construction
//   - announce.go — outbound: approval controls, retraction, confirmations
//   - updates.go  — inbound: webhook updates, callback query parsing
//
// The bot is an optional channel: the ledger works without it, and every
// send is best-effort.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"fondeo/entity"
	"fondeo/lib/sl"
)

// Core is the subset of ledger operations the bot drives. Approvals
// arriving through the bot are subject to the same idempotency rules as
// every other channel.
type Core interface {
	ApproveTopUp(ctx context.Context, requestID int64, via entity.ApprovalVia) (bool, error)
	RejectTopUp(ctx context.Context, requestID int64) error
}

type TgBot struct {
	log    *slog.Logger
	api    *tgbotapi.Bot
	chatId int64 // staff chat receiving approval controls
	core   Core
}

func NewTgBot(apiKey string, adminChatId int64, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &TgBot{
		log:    log.With(sl.Module("tgbot")),
		api:    api,
		chatId: adminChatId,
	}, nil
}

func (t *TgBot) SetCore(core Core) {
	t.core = core
}
