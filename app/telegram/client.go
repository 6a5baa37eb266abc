// Package telegram is a thin client for the Telegram Bot API, covering the
// three send surfaces the watcher uses: text, single photo, photo group.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const captionLimit = 1024

// Client sends messages to a single chat. A nil Client is valid and drops
// every send, which is how dry runs and unconfigured setups are handled.
type Client struct {
	token      string
	chatID     string
	httpClient *http.Client
	baseURL    string
}

func NewClient(token, chatID string, httpClient *http.Client) *Client {
	return &Client{
		token:      token,
		chatID:     chatID,
		httpClient: httpClient,
		baseURL:    "https://api.telegram.org/bot" + token,
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) SendText(ctx context.Context, text string, disablePreview bool) error {
	if c == nil {
		return nil
	}
	payload := map[string]any{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": disablePreview,
	}
	return c.post(ctx, "sendMessage", payload)
}

func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	if c == nil {
		return nil
	}
	payload := map[string]any{
		"chat_id": c.chatID,
		"photo":   photoURL,
		"caption": truncate(caption, captionLimit),
	}
	return c.post(ctx, "sendPhoto", payload)
}

// SendMediaGroup sends up to ten photos as one album; the caption, if any,
// rides on the first photo.
func (c *Client) SendMediaGroup(ctx context.Context, photoURLs []string, caption string) error {
	if c == nil || len(photoURLs) == 0 {
		return nil
	}

	if len(photoURLs) > 10 {
		photoURLs = photoURLs[:10]
	}

	media := make([]map[string]any, 0, len(photoURLs))
	for i, url := range photoURLs {
		entry := map[string]any{"type": "photo", "media": url}
		if i == 0 && caption != "" {
			entry["caption"] = truncate(caption, captionLimit)
		}
		media = append(media, entry)
	}

	payload := map[string]any{
		"chat_id": c.chatID,
		"media":   media,
	}
	return c.post(ctx, "sendMediaGroup", payload)
}

func (c *Client) post(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !result.OK {
		return fmt.Errorf("%s rejected: %s", method, result.Description)
	}

	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
