package telegram

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"showdrop/internal/gateway"
	"showdrop/internal/logging"
)

// pollRetryDelay spaces out getUpdates retries after transport errors so a
// flapping network does not spin the loop.
const pollRetryDelay = 3 * time.Second

type rawUser struct {
	ID int64 `json:"id"`
}

type rawChat struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type rawDocument struct {
	FileName string `json:"file_name"`
}

type rawMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      rawChat      `json:"chat"`
	From      *rawUser     `json:"from"`
	Text      string       `json:"text"`
	Caption   string       `json:"caption"`
	Document  *rawDocument `json:"document"`
	Video     *struct{}    `json:"video"`
}

type rawCallback struct {
	ID      string      `json:"id"`
	From    rawUser     `json:"from"`
	Message *rawMessage `json:"message"`
	Data    string      `json:"data"`
}

type rawUpdate struct {
	UpdateID      int64        `json:"update_id"`
	Message       *rawMessage  `json:"message"`
	ChannelPost   *rawMessage  `json:"channel_post"`
	CallbackQuery *rawCallback `json:"callback_query"`
}

// Updates long-polls getUpdates and converts inbound events. The channel
// closes when the context is cancelled; transport errors are logged and
// retried rather than surfaced.
func (c *Client) Updates(ctx context.Context) <-chan gateway.Update {
	out := make(chan gateway.Update)

	go func() {
		defer close(out)
		var offset int64
		for {
			updates, err := c.getUpdates(ctx, offset)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				c.logger.Warn("getUpdates failed", logging.Error(err))
				select {
				case <-time.After(pollRetryDelay):
					continue
				case <-ctx.Done():
					return
				}
			}
			for _, raw := range updates {
				if raw.UpdateID >= offset {
					offset = raw.UpdateID + 1
				}
				update, ok := convertUpdate(raw)
				if !ok {
					continue
				}
				select {
				case out <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (c *Client) getUpdates(ctx context.Context, offset int64) ([]rawUpdate, error) {
	params := url.Values{}
	params.Set("timeout", strconv.Itoa(c.pollTimeout))
	params.Set("allowed_updates", `["message","channel_post","callback_query"]`)
	if offset > 0 {
		params.Set("offset", strconv.FormatInt(offset, 10))
	}

	var updates []rawUpdate
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func convertUpdate(raw rawUpdate) (gateway.Update, bool) {
	update := gateway.Update{ID: raw.UpdateID}
	switch {
	case raw.Message != nil:
		update.Message = convertMessage(raw.Message)
	case raw.ChannelPost != nil:
		update.ChannelPost = convertMessage(raw.ChannelPost)
	case raw.CallbackQuery != nil:
		cb := &gateway.Callback{
			ID:     raw.CallbackQuery.ID,
			FromID: raw.CallbackQuery.From.ID,
			Data:   raw.CallbackQuery.Data,
		}
		if raw.CallbackQuery.Message != nil {
			cb.Chat = gateway.ChatID(raw.CallbackQuery.Message.Chat.ID)
			cb.MessageID = raw.CallbackQuery.Message.MessageID
		}
		update.Callback = cb
	default:
		return gateway.Update{}, false
	}
	return update, true
}

func convertMessage(raw *rawMessage) *gateway.Message {
	msg := &gateway.Message{
		ID:           raw.MessageID,
		Chat:         gateway.ChatID(raw.Chat.ID),
		ChatUsername: raw.Chat.Username,
		Text:         raw.Text,
		Caption:      raw.Caption,
		HasMedia:     raw.Document != nil || raw.Video != nil,
	}
	if raw.From != nil {
		msg.FromID = raw.From.ID
	}
	if raw.Document != nil {
		msg.FileName = raw.Document.FileName
	}
	return msg
}
