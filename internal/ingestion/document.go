package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelectors are elements rendered on their own line when HTML is flattened to text.
const blockSelectors = "p, div, section, article, li, tr, h1, h2, h3, h4, h5, h6, br, ul, ol, table, header, main"

// ReadDocument reads a résumé or job description from disk and returns its
// cleaned text. Files ending in .html or .htm are flattened to text first;
// anything else is read as plain text.
func ReadDocument(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	format := FormatText
	text := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		format = FormatHTML
		text, err = HTMLToText(text)
		if err != nil {
			return "", nil, err
		}
	}

	cleaned := CleanText(text)
	return cleaned, NewMetadata(cleaned, path, format), nil
}

// HTMLToText flattens an HTML document to text. Scripts, styles and page
// chrome are removed, block elements start new lines and list items become
// "- " bullets so that section headers and bullets survive for parsing.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, .cookie-banner, .popup").Remove()
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	lines := strings.Split(body.Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n"), nil
}
