// Package notifier renders the run digest and posts it to a messaging
// endpoint, either a Slack incoming webhook or a Telegram chat.
package notifier

import (
	"fmt"
	"strings"

	"newsdigest/internal/markup"
	"newsdigest/internal/model"
)

const digestHeader = "*AI News Summary*"

// Digest renders the accepted items as one Slack mrkdwn message: header line,
// then per item the title, summary, rating out of 10, and a link annotated
// with the publication date, separated by "---" lines.
func Digest(items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString(digestHeader + "\n\n")

	for _, item := range items {
		fmt.Fprintf(&b, "*Title:* %s\n", item.Title)
		fmt.Fprintf(&b, "*Summary:* %s\n", item.Summary)
		fmt.Fprintf(&b, "Rating: %d/10\n", item.Rating)
		fmt.Fprintf(&b, "<%s|Read More>  |  Published on: %s\n", item.URL, item.PublicationDate)
		b.WriteString("---\n")
	}

	return b.String()
}

// telegramDigest is the MarkdownV2 rendering of the same digest.
func telegramDigest(items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString(digestHeader + "\n\n")

	for _, item := range items {
		fmt.Fprintf(&b, "*%s*\n", markup.EscapeForMarkdown(item.Title))
		fmt.Fprintf(&b, "%s\n", markup.EscapeForMarkdown(item.Summary))
		fmt.Fprintf(&b, "Rating: %d/10\n", item.Rating)
		fmt.Fprintf(&b, "[Read More](%s)  \\|  Published on: %s\n",
			markup.EscapeLinkURL(item.URL),
			markup.EscapeForMarkdown(item.PublicationDate.String()),
		)
		b.WriteString(markup.EscapeForMarkdown("---") + "\n")
	}

	return b.String()
}
