package telegramhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/go-chi/render"

	"fondeo/lib/sl"
)

type Bot interface {
	HandleUpdate(ctx context.Context, upd *tgbotapi.Update)
}

// Event receives Telegram webhook deliveries. Every delivery is
// acknowledged with 200 {ok:true}: a malformed or unrecognized payload
// must not cause Telegram to retry it forever.
func Event(logger *slog.Logger, bot Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.telegramhook"),
			slog.String("path", r.URL.Path),
		)

		ack := func() {
			render.JSON(w, r, map[string]bool{"ok": true})
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warn("read request body", sl.Err(err))
			ack()
			return
		}

		var upd tgbotapi.Update
		if err = json.Unmarshal(payload, &upd); err != nil {
			log.With(slog.Int("size", len(payload))).Debug("ignoring malformed update", sl.Err(err))
			ack()
			return
		}

		if bot != nil {
			bot.HandleUpdate(r.Context(), &upd)
		}
		ack()
	}
}
