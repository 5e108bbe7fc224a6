package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts notices to an external delivery gateway (the mail/SMS
// sender lives behind it). When a WS registry is attached, a live session is
// tried first and the webhook only serves as fallback.
type WebhookNotifier struct {
	Endpoint string
	Client   *http.Client
	WS       *WSRegistry
}

func NewWebhookNotifier(endpoint string, ws *WSRegistry) *WebhookNotifier {
	return &WebhookNotifier{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 3 * time.Second},
		WS:       ws,
	}
}

func (w *WebhookNotifier) Notify(recipientID, subject, body string) error {
	if w.WS != nil {
		if err := w.WS.Notify(recipientID, subject, body); err == nil {
			return nil
		}
	}
	if w.Endpoint == "" {
		return ErrNoSession
	}
	payload, _ := json.Marshal(map[string]string{
		"recipient_id": recipientID,
		"subject":      subject,
		"body":         body,
	})
	resp, err := w.Client.Post(w.Endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify webhook status %d", resp.StatusCode)
	}
	return nil
}
