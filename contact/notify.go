package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"portfolio/email"
)

// Notifier announces a new submission in a chat channel.
type Notifier interface {
	Notify(ctx context.Context, s email.Submission) error
}

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

func (n *SlackNotifier) Notify(ctx context.Context, s email.Submission) error {
	if err := slack.PostWebhookContext(ctx, n.webhookURL, slackMessage(s)); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}

func slackMessage(s email.Submission) *slack.WebhookMessage {
	name := escapeMrkdwn(s.Name)
	addr := escapeMrkdwn(s.Email)

	return &slack.WebhookMessage{
		Text: "New contact form submission from " + s.Name,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewHeaderBlock(
					slack.NewTextBlockObject(slack.PlainTextType, "New Contact Form Submission", false, false),
				),
				slack.NewSectionBlock(nil, []*slack.TextBlockObject{
					slack.NewTextBlockObject(slack.MarkdownType, "*Name:*\n"+name, false, false),
					slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Email:*\n<mailto:%s|%s>", addr, addr), false, false),
				}, nil),
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, "*Message:*\n"+escapeMrkdwn(s.Message), false, false),
					nil, nil,
				),
			},
		},
	}
}

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeMrkdwn(s string) string {
	return mrkdwnEscaper.Replace(s)
}
