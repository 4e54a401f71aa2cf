package entity

import (
	"net/http"

	"fondeo/lib/validate"
)

// MessageRef points at a rendered approve/reject control in a messaging
// channel so it can be retracted after the request is resolved. Cached
// with a TTL; losing it is harmless.
type MessageRef struct {
	TopUpID   int64 `json:"tx" validate:"required"`
	ChatId    int64 `json:"chat_id" validate:"required"`
	MessageId int64 `json:"message_id" validate:"required"`
}

func (m *MessageRef) Bind(_ *http.Request) error {
	return validate.Struct(m)
}
