package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"fondeo/entity"
	"fondeo/lib/sl"
)

// HandleUpdate processes one webhook update. Anything that is not a
// well-formed approval callback is silently dropped: the webhook
// endpoint acknowledges every delivery regardless.
func (t *TgBot) HandleUpdate(ctx context.Context, upd *tgbotapi.Update) {
	if upd == nil || upd.CallbackQuery == nil {
		return
	}
	cq := upd.CallbackQuery

	action, topUpId, ok := parseCallback(cq.Data)
	if !ok {
		t.log.With(
			slog.String("data", cq.Data),
		).Debug("ignoring unrecognized callback")
		return
	}

	log := t.log.With(
		slog.Int64("topup_id", topUpId),
		slog.String("action", action),
		slog.Int64("from", cq.From.Id),
	)

	if t.core == nil {
		log.Warn("callback received with no core attached")
		return
	}

	var answer string
	switch action {
	case "approve":
		applied, err := t.core.ApproveTopUp(ctx, topUpId, entity.ViaBot)
		switch {
		case errors.Is(err, entity.ErrNotFound):
			answer = "Request not found"
		case err != nil:
			log.Error("approve topup", sl.Err(err))
			answer = "Error occurred"
		case applied:
			answer = fmt.Sprintf("Top-up #%d approved", topUpId)
			t.plainResponse(cq.From.Id, answer)
		default:
			answer = "Already approved"
		}
	case "reject":
		err := t.core.RejectTopUp(ctx, topUpId)
		switch {
		case errors.Is(err, entity.ErrNotFound):
			answer = "Request not found"
		case err != nil:
			log.Error("reject topup", sl.Err(err))
			answer = "Error occurred"
		default:
			answer = fmt.Sprintf("Top-up #%d left pending", topUpId)
		}
	}

	_, err := cq.Answer(t.api, &tgbotapi.AnswerCallbackQueryOpts{Text: answer})
	if err != nil {
		log.Warn("answer callback", sl.Err(err))
	}
}

// parseCallback splits approval callback data into its action and
// top-up id. Returns ok=false for anything it does not recognize.
func parseCallback(data string) (string, int64, bool) {
	var action, raw string
	switch {
	case strings.HasPrefix(data, cbApprove):
		action, raw = "approve", strings.TrimPrefix(data, cbApprove)
	case strings.HasPrefix(data, cbReject):
		action, raw = "reject", strings.TrimPrefix(data, cbReject)
	default:
		return "", 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return action, id, true
}
