package oembed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoEmbedSource is returned when the html field carries no embeddable element.
var ErrNoEmbedSource = errors.New("oembed: no embed source in html")

var embedSelectors = []string{"iframe[src]", "video[src]", "video source[src]", "embed[src]", "script[src]"}

// EmbedSource returns the src attribute of the first iframe, video, embed or
// script element found in the html field.
func (r *Response) EmbedSource() (string, error) {
	markup := strings.TrimSpace(r.HTML())
	if markup == "" {
		return "", ErrNoEmbedSource
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse embed html: %w", err)
	}

	for _, sel := range embedSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if src, ok := node.Attr("src"); ok && strings.TrimSpace(src) != "" {
				return strings.TrimSpace(src), nil
			}
		}
	}
	return "", ErrNoEmbedSource
}
