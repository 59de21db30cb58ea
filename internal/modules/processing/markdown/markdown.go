// Package markdown renders article bodies to sanitised HTML.
package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// wordsPerMinute is the reading speed used for derived read times.
const wordsPerMinute = 200

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(
			htmlrenderer.WithHardWraps(),
			htmlrenderer.WithXHTML(),
			htmlrenderer.WithUnsafe(),
		),
	)
	sanitizer = newSanitizer()
)

func newSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code", "pre", "span", "div")
	policy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
	return policy
}

// Render converts Markdown (raw HTML allowed) to HTML and strips anything
// unsafe. Structured JSON bodies are not Markdown and render to "".
func Render(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || isJSONObject(trimmed) {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return sanitizer.Sanitize(content)
	}
	return sanitizer.Sanitize(buf.String())
}

// ReadTime estimates the reading time of content as "N phút đọc", never less
// than one minute.
func ReadTime(content string) string {
	words := len(strings.FieldsFunc(PlainText(content), unicode.IsSpace))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d phút đọc", minutes)
}

// PlainText returns content with all markup removed.
func PlainText(content string) string {
	html := Render(content)
	if html == "" {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(html))
}

func isJSONObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	return json.Valid([]byte(s))
}
