package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLink(t *testing.T) {
	got := FormatInline("[kittens](/cats/)")
	want := `<a href="/cats/">kittens</a>`
	if got != want {
		t.Errorf("FormatInline link = %q, want %q", got, want)
	}
}

func TestFormatInlineExternalLink(t *testing.T) {
	got := FormatInline("[site](https://example.com)^")
	if !strings.Contains(got, `target="_blank"`) || !strings.Contains(got, `rel="noopener noreferrer"`) {
		t.Errorf("external link missing attributes: %q", got)
	}
}

func TestFormatInlineUnsafeLinkDropped(t *testing.T) {
	got := FormatInline("[click](javascript:alert(1))")
	if strings.Contains(got, "javascript") {
		t.Errorf("unsafe scheme survived: %q", got)
	}
	if !strings.Contains(got, "click") {
		t.Errorf("link text should survive: %q", got)
	}
}

func TestFormatInlineInlineCodeNotFormatted(t *testing.T) {
	got := FormatInline("use `**not bold**` here")
	if !strings.Contains(got, "<code>**not bold**</code>") {
		t.Errorf("inline code should keep literal asterisks: %q", got)
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	got := FormatInline("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should be escaped: %q", got)
	}
}

func TestRenderMarkdownHeadings(t *testing.T) {
	input := "# Title\n\n## Section\n\n### Sub"
	var buf bytes.Buffer
	RenderMarkdown(&buf, input)
	got := buf.String()
	for _, want := range []string{"<h1>Title</h1>", "<h2>Section</h2>", "<h3>Sub</h3>"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderMarkdown missing %q: %q", want, got)
		}
	}
}

func TestRenderMarkdownList(t *testing.T) {
	input := "- one\n- two\n\nafter"
	var buf bytes.Buffer
	RenderMarkdown(&buf, input)
	got := buf.String()
	if !strings.Contains(got, "<ul><li>one</li><li>two</li></ul>") {
		t.Errorf("RenderMarkdown list failed: %q", got)
	}
	if !strings.Contains(got, "<p>after") {
		t.Errorf("paragraph after list missing: %q", got)
	}
}

func TestRenderMarkdownOrderedList(t *testing.T) {
	input := "1. first\n2. second"
	var buf bytes.Buffer
	RenderMarkdown(&buf, input)
	got := buf.String()
	if !strings.Contains(got, "<ol><li>first</li><li>second</li></ol>") {
		t.Errorf("RenderMarkdown ordered list failed: %q", got)
	}
}

func TestRenderMarkdownBlockquote(t *testing.T) {
	input := "> quoted text"
	var buf bytes.Buffer
	RenderMarkdown(&buf, input)
	got := buf.String()
	if !strings.Contains(got, "<blockquote>quoted text</blockquote>") {
		t.Errorf("RenderMarkdown blockquote failed: %q", got)
	}
}

func TestRenderMarkdownParagraphJoining(t *testing.T) {
	input := "line one\nline two\n\nsecond para"
	var buf bytes.Buffer
	RenderMarkdown(&buf, input)
	got := buf.String()
	if strings.Count(got, "<p>") != 2 {
		t.Errorf("expected 2 paragraphs, got: %q", got)
	}
}

func TestSafeURLDataImage(t *testing.T) {
	inline := "data:image/jpeg;base64,AAAA"
	if got := SafeURL(inline); got != inline {
		t.Errorf("SafeURL(%q) = %q, want passthrough", inline, got)
	}
	if got := SafeURL("data:text/html;base64,AAAA"); got != "" {
		t.Errorf("non-image data URL should be rejected, got %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Hello").Render(t.Context(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<h1>Hello</h1>") {
		t.Errorf("component output = %q", buf.String())
	}
}
