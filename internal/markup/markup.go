// Package markup escapes text for Telegram MarkdownV2 messages.
package markup

import "strings"

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

var linkURLReplacer = strings.NewReplacer(
	"\\", "\\\\", ")", "\\)",
)

// EscapeForMarkdown escapes every MarkdownV2 special character in s.
func EscapeForMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

// EscapeLinkURL escapes the characters that terminate an inline link target.
func EscapeLinkURL(s string) string {
	return linkURLReplacer.Replace(s)
}
