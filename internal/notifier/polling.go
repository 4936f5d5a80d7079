package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	pollTimeout    = 30 // seconds Telegram holds a getUpdates call open
	pollRetryDelay = 5 * time.Second
)

// CommandHandler answers a command; an empty reply sends nothing.
type CommandHandler func(ctx context.Context, cmd Command) string

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls for commands sent from the configured chat and
// replies with the handler's output. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	client := &http.Client{Timeout: (pollTimeout + 5) * time.Second, Transport: t.Client.Transport}
	offset := 0
	for {
		updates, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				t.Logger.Info("telegram polling stopped")
				return
			}
			t.Logger.Warn("poll updates", zap.Error(err))
			if !sleepCtx(ctx, pollRetryDelay) {
				t.Logger.Info("telegram polling stopped")
				return
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			t.dispatch(ctx, u, handler)
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int) ([]telegramUpdate, error) {
	raw, err := t.call(ctx, client, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         pollTimeout,
		"allowed_updates": []string{"message"},
	})
	if err != nil {
		return nil, err
	}
	var updates []telegramUpdate
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// dispatch runs the handler for one update. Messages from other chats are
// ignored so only the configured chat can trigger backtests.
func (t *TelegramNotifier) dispatch(ctx context.Context, u telegramUpdate, handler CommandHandler) {
	if u.Message == nil || u.Message.Text == "" {
		return
	}
	chatID := strconv.FormatInt(u.Message.Chat.ID, 10)
	if chatID != t.ChatID {
		t.Logger.Warn("ignoring message from unknown chat", zap.String("chat_id", chatID))
		return
	}
	cmd, ok := ParseCommand(u.Message.Text)
	if !ok {
		cmd = Command{Name: "/help"}
	}
	t.Logger.Info("received command", zap.String("command", cmd.Name), zap.Strings("args", cmd.Args))

	reply := handler(ctx, cmd)
	if reply == "" {
		return
	}
	for _, part := range splitMessage(reply, maxMessageLen) {
		if err := t.sendMessage(ctx, chatID, part); err != nil {
			t.Logger.Error("send reply", zap.String("command", cmd.Name), zap.Error(err))
			return
		}
	}
}
