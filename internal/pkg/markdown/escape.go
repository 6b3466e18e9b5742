// Package markdown escapes text for Telegram's MarkdownV2 parse mode.
package markdown

import "strings"

var (
	textEscaper = strings.NewReplacer(
		`\`, `\\`,
		"_", `\_`,
		"*", `\*`,
		"[", `\[`,
		"]", `\]`,
		"(", `\(`,
		")", `\)`,
		"~", `\~`,
		"`", "\\`",
		">", `\>`,
		"#", `\#`,
		"+", `\+`,
		"-", `\-`,
		"=", `\=`,
		"|", `\|`,
		"{", `\{`,
		"}", `\}`,
		".", `\.`,
		"!", `\!`,
	)
	codeEscaper  = strings.NewReplacer(`\`, `\\`, "`", "\\`")
	urlEscaper   = strings.NewReplacer(" ", "%20", "(", `\(`, ")", `\)`)
	fenceBreaker = strings.NewReplacer("```", "``\\`")
)

// Escape makes text safe for use outside of entities.
func Escape(text string) string {
	return textEscaper.Replace(text)
}

// Code makes text safe inside an inline code span or pre block.
func Code(text string) string {
	return codeEscaper.Replace(text)
}

// URL makes a link target safe inside the parentheses of [label](url).
func URL(link string) string {
	return urlEscaper.Replace(link)
}

// Fence rewrites triple backticks so text cannot close a ``` block early.
func Fence(text string) string {
	return fenceBreaker.Replace(text)
}
