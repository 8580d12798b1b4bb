// Package notify delivers stock alerts through the Telegram Bot API.
// Delivery failures are logged and swallowed: a dead bot must never fail a
// check run.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const BaseURL = "https://api.telegram.org"

type Notifier struct {
	Token string

	// ChatID, when set, is the single group the bot posts to. When empty
	// the recipient list is discovered from the bot's update history.
	ChatID string

	BaseURL string
	Client  *http.Client

	// SendDelay spaces out consecutive sends to stay under the Bot API
	// flood limit.
	SendDelay time.Duration
}

func New(token, chatID string) *Notifier {
	return &Notifier{
		Token:     token,
		ChatID:    chatID,
		BaseURL:   BaseURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
		SendDelay: 500 * time.Millisecond,
	}
}

type update struct {
	Message *struct {
		Chat *struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// ChatIDs resolves the recipients: the fixed group when configured,
// otherwise every distinct chat that has messaged the bot.
func (n *Notifier) ChatIDs() ([]string, error) {
	if n.ChatID != "" {
		return []string{n.ChatID}, nil
	}

	res, err := n.Client.Get(fmt.Sprintf("%s/bot%s/getUpdates", n.BaseURL, n.Token))
	if err != nil {
		return nil, fmt.Errorf("telegram: getUpdates: %w", err)
	}
	defer res.Body.Close()

	var updates updatesResponse
	if err := json.NewDecoder(res.Body).Decode(&updates); err != nil {
		return nil, fmt.Errorf("telegram: decode updates: %w", err)
	}

	seen := make(map[int64]bool)
	var ids []string
	for _, u := range updates.Result {
		if u.Message == nil || u.Message.Chat == nil {
			continue
		}
		id := u.Message.Chat.ID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, fmt.Sprintf("%d", id))
		}
	}

	log.Printf("[telegram] Resolved %d subscribers", len(ids))
	return ids, nil
}

// Send posts a Markdown message to every recipient. Per-chat failures are
// logged and do not stop the remaining sends.
func (n *Notifier) Send(text string) {
	if n.Token == "" {
		log.Println("[telegram] Bot token not set, skipping notification")
		return
	}

	chatIDs, err := n.ChatIDs()
	if err != nil {
		log.Printf("[telegram] Failed to resolve chat ids: %v", err)
		return
	}

	for i, chatID := range chatIDs {
		if i > 0 {
			time.Sleep(n.SendDelay)
		}
		if err := n.sendTo(chatID, text); err != nil {
			log.Printf("[telegram] Send to %s failed: %v", chatID, err)
		}
	}
}

func (n *Notifier) sendTo(chatID, text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.BaseURL, n.Token)
	res, err := n.Client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("status %d: %s", res.StatusCode, body)
	}
	return nil
}
