// package services contains clients for outbound collaborators
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mikelobato/qloudsound-api/internal/models"
	"github.com/mikelobato/qloudsound-api/internal/shared"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

// Notifier delivers an advisory message about a new submission.
//
// Delivery is best effort: callers log failures and never let them affect
// the HTTP response.
type Notifier interface {
	Notify(ctx context.Context, submission *models.Submission, extra string) error
}

// TelegramNotifier posts submission summaries to a Telegram chat via the
// bot sendMessage endpoint.
type TelegramNotifier struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a notifier for the given bot token and chat id.
// An empty baseURL uses the public Telegram API; a nil client uses [http.DefaultClient].
func NewTelegramNotifier(baseURL, token, chatID string, client *http.Client) *TelegramNotifier {
	if baseURL == "" {
		baseURL = defaultTelegramBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TelegramNotifier{
		baseURL:    baseURL,
		token:      token,
		chatID:     chatID,
		httpClient: client,
	}
}

// Notify sends the submission summary. With no token or chat id
// configured it silently does nothing; that is a valid deployment, not
// an error.
func (t *TelegramNotifier) Notify(ctx context.Context, submission *models.Submission, extra string) error {
	if t.token == "" || t.chatID == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    FormatSubmissionMessage(submission, extra),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotifyFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrNotifyFailed, resp.StatusCode, string(body))
	}

	return nil
}

// FormatSubmissionMessage builds the human-readable multi-line summary
// posted to the chat. Empty optional fields are skipped.
func FormatSubmissionMessage(submission *models.Submission, extra string) string {
	rows := []string{
		"🆕 Nueva solicitud de canción",
		fmt.Sprintf("• Nombre: %s", submission.Name),
		fmt.Sprintf("• Email: %s", submission.Email),
		fmt.Sprintf("• Estilo: %s", submission.Style),
	}

	if submission.Description != "" {
		rows = append(rows, fmt.Sprintf("• Descripción: %s", submission.Description))
	}
	if submission.Filename != "" {
		rows = append(rows, fmt.Sprintf("• Archivo: %s", submission.Filename))
	}
	if extra != "" {
		rows = append(rows, fmt.Sprintf("• Notas: %s", extra))
	}

	return strings.Join(rows, "\n")
}
