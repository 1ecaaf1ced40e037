package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"newsdigest/internal/model"
)

type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewSlackNotifier(webhookURL string, timeout time.Duration) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Publish posts the digest as a single webhook message. An empty item list
// makes no external call.
func (n *SlackNotifier) Publish(ctx context.Context, items []model.NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	msg := &slack.WebhookMessage{Text: Digest(items)}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}

	return nil
}
