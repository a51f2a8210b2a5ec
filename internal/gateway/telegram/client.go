package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"showdrop/internal/config"
	"showdrop/internal/gateway"
	"showdrop/internal/logging"
)

const userAgent = "showdrop/0.1"

// Client implements gateway.Gateway and gateway.Source against the Telegram
// Bot API.
type Client struct {
	baseURL     string
	token       string
	pollTimeout int
	http        *http.Client
	logger      *slog.Logger
}

// New constructs a Bot API client from configuration. The HTTP timeout leaves
// headroom above the long-poll timeout so getUpdates calls are not cut short.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	pollTimeout := cfg.Telegram.PollTimeout
	return &Client{
		baseURL:     strings.TrimRight(cfg.Telegram.APIBaseURL, "/"),
		token:       cfg.Telegram.BotToken,
		pollTimeout: pollTimeout,
		http:        &http.Client{Timeout: time.Duration(pollTimeout+10) * time.Second},
		logger:      logging.NewComponentLogger(logger, "telegram"),
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("%s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !parsed.OK {
		return fmt.Errorf("%s: api error %d: %s", method, parsed.ErrorCode, parsed.Description)
	}
	if out != nil {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

// ChatMember reports the user's membership status in a channel.
func (c *Client) ChatMember(ctx context.Context, channel gateway.ChatRef, userID int64) (gateway.MemberStatus, error) {
	params := url.Values{}
	params.Set("chat_id", string(channel))
	params.Set("user_id", strconv.FormatInt(userID, 10))

	var result struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, "getChatMember", params, &result); err != nil {
		return gateway.StatusNone, err
	}
	switch gateway.MemberStatus(result.Status) {
	case gateway.StatusMember, gateway.StatusAdministrator, gateway.StatusCreator,
		gateway.StatusRestricted, gateway.StatusLeft, gateway.StatusKicked:
		return gateway.MemberStatus(result.Status), nil
	default:
		return gateway.StatusNone, nil
	}
}

// Forward copies a message between chats and returns the new message identifier.
func (c *Client) Forward(ctx context.Context, from gateway.ChatRef, messageID int64, to gateway.ChatRef) (int64, error) {
	params := url.Values{}
	params.Set("chat_id", string(to))
	params.Set("from_chat_id", string(from))
	params.Set("message_id", strconv.FormatInt(messageID, 10))

	var result struct {
		MessageID int64 `json:"message_id"`
	}
	if err := c.call(ctx, "forwardMessage", params, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

// Send delivers a plain text message.
func (c *Client) Send(ctx context.Context, to gateway.ChatRef, text string) (int64, error) {
	return c.sendMessage(ctx, to, text, nil)
}

// SendWithKeyboard delivers a text message with inline keyboard rows.
func (c *Client) SendWithKeyboard(ctx context.Context, to gateway.ChatRef, text string, rows [][]gateway.Button) (int64, error) {
	return c.sendMessage(ctx, to, text, rows)
}

func (c *Client) sendMessage(ctx context.Context, to gateway.ChatRef, text string, rows [][]gateway.Button) (int64, error) {
	params := url.Values{}
	params.Set("chat_id", string(to))
	params.Set("text", text)
	if len(rows) > 0 {
		markup, err := json.Marshal(inlineKeyboard(rows))
		if err != nil {
			return 0, fmt.Errorf("marshal keyboard: %w", err)
		}
		params.Set("reply_markup", string(markup))
	}

	var result struct {
		MessageID int64 `json:"message_id"`
	}
	if err := c.call(ctx, "sendMessage", params, &result); err != nil {
		return 0, err
	}
	return result.MessageID, nil
}

type keyboardButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

type keyboardMarkup struct {
	InlineKeyboard [][]keyboardButton `json:"inline_keyboard"`
}

func inlineKeyboard(rows [][]gateway.Button) keyboardMarkup {
	markup := keyboardMarkup{InlineKeyboard: make([][]keyboardButton, 0, len(rows))}
	for _, row := range rows {
		buttons := make([]keyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, keyboardButton{Text: b.Text, URL: b.URL, CallbackData: b.CallbackData})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}

// Delete removes a message from a chat.
func (c *Client) Delete(ctx context.Context, chat gateway.ChatRef, messageID int64) error {
	params := url.Values{}
	params.Set("chat_id", string(chat))
	params.Set("message_id", strconv.FormatInt(messageID, 10))
	return c.call(ctx, "deleteMessage", params, nil)
}

// AnswerCallback acknowledges a callback query.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	params := url.Values{}
	params.Set("callback_query_id", callbackID)
	if text != "" {
		params.Set("text", text)
	}
	return c.call(ctx, "answerCallbackQuery", params, nil)
}
