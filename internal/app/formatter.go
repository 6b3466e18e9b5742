package app

import (
	"strings"

	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/markdown"
)

// FormatNotification renders n as a Telegram MarkdownV2 message.
func FormatNotification(n *notifications.Notification) string {
	var sb strings.Builder

	sb.WriteString("📌 *")
	sb.WriteString(markdown.Escape(n.DisplayID()))
	sb.WriteString("*")
	if notBlank(n.Title) {
		sb.WriteString(" — _")
		sb.WriteString(markdown.Escape(n.Title))
		sb.WriteString("_")
	}
	sb.WriteString("\n")

	if notBlank(n.Comment) {
		sb.WriteString("```\n")
		sb.WriteString(markdown.Fence(n.Comment))
		sb.WriteString("\n```\n")
	}

	writeCodeLine(&sb, "Status", n.Status)
	writeCodeLine(&sb, "Priority", n.Priority)
	writeCodeLine(&sb, "Assignee", n.Assignee)

	tags := make([]string, 0, len(n.Tags))
	for _, tag := range n.Tags {
		if notBlank(tag) {
			tags = append(tags, markdown.Code(tag))
		}
	}
	if len(tags) > 0 {
		sb.WriteString("Tags: `")
		sb.WriteString(strings.Join(tags, "`, `"))
		sb.WriteString("`\n")
	}

	if notBlank(n.Link) {
		sb.WriteString("Link: [Open](")
		sb.WriteString(markdown.URL(n.Link))
		sb.WriteString(")")
	}

	return strings.TrimSpace(sb.String())
}

func writeCodeLine(sb *strings.Builder, label, value string) {
	if !notBlank(value) {
		return
	}
	sb.WriteString(label)
	sb.WriteString(": `")
	sb.WriteString(markdown.Code(value))
	sb.WriteString("`\n")
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
