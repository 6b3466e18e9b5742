package telegram

import (
	"encoding/json"
	"fmt"
)

// Update is the part of a webhook update the bot reacts to.
type Update struct {
	Text   string
	ChatID string
	UserID string
}

type updatePayload struct {
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID json.RawMessage `json:"id"`
		} `json:"chat"`
		From struct {
			ID json.RawMessage `json:"id"`
		} `json:"from"`
	} `json:"message"`
}

// ParseUpdate extracts the message of a webhook payload. ok is false when
// the update carries no message, e.g. edits or callback queries.
func ParseUpdate(payload []byte) (update *Update, ok bool, err error) {
	var p updatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, false, fmt.Errorf("invalid Telegram update: %w", err)
	}
	if p.Message == nil {
		return nil, false, nil
	}

	return &Update{
		Text:   p.Message.Text,
		ChatID: idText(p.Message.Chat.ID),
		UserID: idText(p.Message.From.ID),
	}, true, nil
}

func idText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
