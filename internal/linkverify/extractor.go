// Package linkverify checks the rendered site for broken internal links.
package linkverify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Tag        string // HTML tag (a, img, script, link)
	Attribute  string // Attribute containing the link (href, src)
	IsInternal bool   // True if link stays within the site
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file %s: %w", htmlPath, err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttribute(n.Data); ok {
				for _, a := range n.Attr {
					if a.Key == attr && a.Val != "" {
						links = append(links, Link{
							URL:        a.Val,
							Tag:        n.Data,
							Attribute:  attr,
							IsInternal: isInternal(a.Val),
						})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func linkAttribute(tag string) (string, bool) {
	switch tag {
	case "a", "link":
		return "href", true
	case "img", "script":
		return "src", true
	}
	return "", false
}

func isInternal(url string) bool {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return false
	case strings.HasPrefix(url, "mailto:"), strings.HasPrefix(url, "//"):
		return false
	case strings.HasPrefix(url, "#"):
		return false // same-page anchor
	}
	return true
}
