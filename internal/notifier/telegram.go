package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	telegramBaseURL = "https://api.telegram.org"
	// maxMessageLen is Telegram's limit for one sendMessage text.
	maxMessageLen = 4096
)

// TelegramNotifier delivers backtest reports to one chat and serves commands from it.
type TelegramNotifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Client   *http.Client
	Logger   *zap.Logger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger *zap.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BaseURL:  telegramBaseURL,
		BotToken: botToken,
		ChatID:   chatID,
		Client:   &http.Client{Timeout: 30 * time.Second, Transport: transport},
		Logger:   logger,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, method)
}

// call posts payload to an API method and decodes the envelope.
func (t *TelegramNotifier) call(ctx context.Context, client *http.Client, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(method), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: status %d, undecodable body: %w", method, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		return nil, fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, out.Description)
	}
	return out.Result, nil
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, chatID, text string) error {
	_, err := t.call(ctx, t.Client, "sendMessage", map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
	return err
}

// Send delivers an HTML report to the configured chat, split into as many
// messages as the length limit requires.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	for i, part := range splitMessage(text, maxMessageLen) {
		if err := t.sendMessage(ctx, t.ChatID, part); err != nil {
			return fmt.Errorf("part %d: %w", i+1, err)
		}
	}
	return nil
}

// SendWithRetry is Send with exponential backoff on each part, so parts
// already delivered are not sent twice.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	for i, part := range splitMessage(text, maxMessageLen) {
		if err := t.retry(ctx, maxRetries, func() error { return t.sendMessage(ctx, t.ChatID, part) }); err != nil {
			return fmt.Errorf("part %d: %w", i+1, err)
		}
	}
	return nil
}

func (t *TelegramNotifier) retry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		t.Logger.Warn("telegram send failed",
			zap.Int("attempt", attempt+1), zap.Int("of", maxRetries+1),
			zap.Duration("backoff", backoff), zap.Error(lastErr))
		if !sleepCtx(ctx, backoff) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

// splitMessage cuts text into parts of at most limit runes, preferring the
// blank lines between symbol blocks.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, block := range strings.SplitAfter(text, "\n\n") {
		n := utf8.RuneCountInString(block)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(block)
			parts = append(parts, string(r[:limit]))
			block = string(r[limit:])
			n -= limit
		}
		cur.WriteString(block)
		curLen += n
	}
	flush()
	return parts
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
