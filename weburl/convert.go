package weburl

import (
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// Document is a fetched page reduced to markdown.
type Document struct {
	Title    string
	Markdown string
}

// Convert reduces an HTML page to a markdown document. Readability strips
// navigation and chrome first; if it cannot find an article, the whole body
// is converted instead.
func Convert(htmlContent []byte, pageURL string) (*Document, error) {
	title := extractHTMLTitle(htmlContent)

	content := string(htmlContent)
	if u, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(strings.NewReader(content), u); err == nil && article.Content != "" {
			content = article.Content
			if title == "" {
				title = strings.TrimSpace(article.Title)
			}
		}
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	markdown, err := converter.ConvertString(content)
	if err != nil {
		return nil, err
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = extractMarkdownTitle(markdown)
	}

	return &Document{
		Title:    title,
		Markdown: markdown,
	}, nil
}

// extractHTMLTitle extracts the <title> text from HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// cleanMarkdown collapses excessive blank lines and trims trailing space.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")

	return strings.TrimSpace(content)
}

// extractMarkdownTitle extracts the first H1 heading from markdown.
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
