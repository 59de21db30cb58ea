package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	html := Render("# Title\n\nSome **bold** text.\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<table>")
}

func TestRenderSanitises(t *testing.T) {
	html := Render("<p onclick=\"steal()\">hi</p><script>alert(1)</script>\n\n[x](javascript:alert(1)) and [ok](https://ebgreentek.vn)")
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "onclick")
	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, `href="https://ebgreentek.vn"`)
	assert.Contains(t, html, "hi")
}

func TestRenderSkipsStructuredContent(t *testing.T) {
	assert.Empty(t, Render(`{"intro":"x","sections":[]}`))
	assert.Empty(t, Render("   "))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "1 phút đọc", ReadTime(""))
	assert.Equal(t, "1 phút đọc", ReadTime("short text"))
	assert.Equal(t, "3 phút đọc", ReadTime(strings.Repeat("word ", 401)))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText("**Hello** _world_"))
}
