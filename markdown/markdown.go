// Package markdown provides a simple Markdown-to-HTML renderer as a templ component.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reOrderedList      = regexp.MustCompile(`^(\d+)\.\s`)
	reImg              = regexp.MustCompile(`\!\[(.*?)\]\((.*?)\)`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	lines := strings.Split(md, "\n")
	inList := false
	inOrderedList := false
	inPara := false
	inQuote := false

	flushPara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	flushQuote := func() {
		if inQuote {
			buf.WriteString("</blockquote>")
			inQuote = false
		}
	}
	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrderedList := func() {
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}
	flushAll := func() {
		flushPara()
		flushList()
		flushOrderedList()
		flushQuote()
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\r")

		if strings.TrimSpace(line) == "" {
			flushAll()
			continue
		}

		switch {
		case strings.HasPrefix(line, "---"):
			flushAll()
			buf.WriteString("<hr/>")
		case strings.HasPrefix(line, "# "):
			flushAll()
			buf.WriteString("<h1>")
			buf.WriteString(FormatInline(strings.TrimSpace(line[2:])))
			buf.WriteString("</h1>")
		case strings.HasPrefix(line, "## "):
			flushAll()
			buf.WriteString("<h2>")
			buf.WriteString(FormatInline(strings.TrimSpace(line[3:])))
			buf.WriteString("</h2>")
		case strings.HasPrefix(line, "### "):
			flushAll()
			buf.WriteString("<h3>")
			buf.WriteString(FormatInline(strings.TrimSpace(line[4:])))
			buf.WriteString("</h3>")
		case strings.HasPrefix(line, "- "):
			if !inList {
				flushPara()
				flushOrderedList()
				flushQuote()
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(strings.TrimSpace(line[2:])))
			buf.WriteString("</li>")
		case reOrderedList.MatchString(line):
			if !inOrderedList {
				flushPara()
				flushList()
				flushQuote()
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			content := reOrderedList.ReplaceAllString(line, "")
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(strings.TrimSpace(content)))
			buf.WriteString("</li>")
		case strings.HasPrefix(line, "> "):
			if !inQuote {
				flushPara()
				flushList()
				flushOrderedList()
				buf.WriteString("<blockquote>")
				inQuote = true
			}
			buf.WriteString(FormatInline(strings.TrimSpace(line[2:])))
		default:
			if !inPara {
				flushList()
				flushOrderedList()
				flushQuote()
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString(" ")
			}
			buf.WriteString(FormatInline(strings.TrimSpace(line)) + "\n")
		}
	}
	flushAll()
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes, etc.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline applies inline formatting (bold, italic, links, images) to s.
func FormatInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = reImg.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		return `<img loading="lazy" alt="` + match[1] + `" src="` + src + `" decoding="async"/>`
	})
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if len(match) >= 4 && match[3] == "^" {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})
	// Inline code: extract and replace with placeholders so bold/italic
	// regex does not format content inside backticks.
	var inlineCodeBlocks []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		placeholder := "\x00IC" + strconv.Itoa(len(inlineCodeBlocks)) + "\x00"
		inlineCodeBlocks = append(inlineCodeBlocks, "<code>"+match[1]+"</code>")
		return placeholder
	})
	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})
	for i, code := range inlineCodeBlocks {
		escaped = strings.Replace(escaped, "\x00IC"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return escaped
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Inline data URLs for JPEG images are allowed so gallery images stored
// in the database can be embedded directly.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	if strings.HasPrefix(val, "data:image/jpeg;base64,") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
