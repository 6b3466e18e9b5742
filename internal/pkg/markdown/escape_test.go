//go:build unit
// +build unit

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "issue id", in: "DEMO-123", want: `DEMO\-123`},
		{name: "brackets", in: "Fix [urgent] bug (critical)", want: `Fix \[urgent\] bug \(critical\)`},
		{name: "backslash first", in: `a\b_c`, want: `a\\b\_c`},
		{name: "all specials", in: "_*[]()~`>#+-=|{}.!", want: "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
		{name: "plain", in: "Hello world", want: "Hello world"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, "In Progress", Code("In Progress"))
	assert.Equal(t, "a\\`b\\\\c", Code("a`b\\c"))
	assert.Equal(t, "v1.2-rc", Code("v1.2-rc"))
}

func TestURL(t *testing.T) {
	assert.Equal(t, `https://x.io/issue/A%20B\(1\)`, URL("https://x.io/issue/A B(1)"))
}

func TestFence(t *testing.T) {
	assert.Equal(t, "see ``\\`code block``\\`", Fence("see ```code block```"))
	assert.Equal(t, "single `tick`", Fence("single `tick`"))
}
