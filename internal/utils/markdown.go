package utils

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MoreSeparator marks the end of the excerpt in a post body.
const MoreSeparator = "<!--more-->"

// Raw HTML is not enabled on the renderer, so goldmark drops it. The
// sanitizer runs on top of that.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}

// Heading is one entry of a post's outline.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Rendered is the display form of a markdown document.
type Rendered struct {
	HTML     template.HTML
	Headings []Heading
}

// RenderMarkdown converts markdown to sanitized HTML and collects the heading
// outline. The same input always yields the same output.
func RenderMarkdown(md string) (Rendered, error) {
	src := []byte(md)
	doc := mdRenderer.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := mdRenderer.Renderer().Render(&buf, src, doc); err != nil {
		return Rendered{}, err
	}

	return Rendered{
		HTML:     template.HTML(sanitizer.SanitizeBytes(buf.Bytes())),
		Headings: collectHeadings(doc, src),
	}, nil
}

func collectHeadings(doc ast.Node, src []byte) []Heading {
	headings := []Heading{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		heading := Heading{Level: h.Level, Text: strings.TrimSpace(plainText(h, src))}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				heading.ID = string(b)
			}
		}
		headings = append(headings, heading)
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(plainText(c, src))
		}
	}
	return sb.String()
}

var (
	linkPattern    = regexp.MustCompile(`(\[!\[.*?\]\(.*?\)\])|(!?\[.*?\]\(.*?\))`)
	markPattern    = regexp.MustCompile("(?m)[*#>`~_|]")
	spacePattern   = regexp.MustCompile(`\s+`)
	commentPattern = regexp.MustCompile(`<!--.*?-->`)
)

// stripMarkdown removes markdown formatting for excerpt generation.
func stripMarkdown(md string) string {
	md = commentPattern.ReplaceAllString(md, "")
	md = linkPattern.ReplaceAllString(md, "")
	md = markPattern.ReplaceAllString(md, "")
	md = spacePattern.ReplaceAllString(md, " ")
	return strings.TrimSpace(md)
}

// GenerateExcerpt returns a plain-text excerpt of at most length runes
// (plus "..." when cut). Text before MoreSeparator is used when present.
func GenerateExcerpt(md string, length int) string {
	excerpt := md
	if before, _, found := strings.Cut(md, MoreSeparator); found {
		excerpt = before
	}

	runes := []rune(stripMarkdown(excerpt))
	if len(runes) > length {
		return string(runes[:length]) + "..."
	}
	return string(runes)
}
