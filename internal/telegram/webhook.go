package telegram

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookPath is where the HTTP server receives updates.
const WebhookPath = "/api/telegram/webhook"

// SecretHeader carries the secret_token given to setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Requester interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// RegisterWebhook points the bot at baseURL + WebhookPath and returns the
// registered URL.
func RegisterWebhook(api Requester, baseURL, secret string) (string, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return "", errors.New("webhook base url is empty")
	}
	url := baseURL + WebhookPath

	params := tgbotapi.Params{
		"url":             url,
		"allowed_updates": `["message"]`,
	}
	params.AddNonEmpty("secret_token", secret)

	resp, err := api.MakeRequest("setWebhook", params)
	if err != nil {
		return "", fmt.Errorf("setWebhook: %w", err)
	}
	if resp != nil && !resp.Ok {
		return "", fmt.Errorf("setWebhook: %s", resp.Description)
	}

	slog.Info("🔗 telegram webhook set", "url", url, "with_secret", secret != "")
	return url, nil
}
