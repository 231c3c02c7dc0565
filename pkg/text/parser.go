// Package text extracts music links from free-form chat or request text.
package text

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"

	"yamusic/pkg/musiclink"
)

var (
	urlRegex        = regexp.MustCompile(`https?://\S+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "from"}
)

// Message is the result of parsing a piece of text.
type Message struct {
	Text string
	// Links holds the distinct Yandex Music links in order of appearance.
	Links []string
	// Skipped holds the distinct other URLs, which this service cannot play.
	Skipped []string
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) ParseMessage(text string) Message {
	text = p.normalizeText(text)
	links, skipped := lo.FilterReject(lo.Uniq(p.extractURLs(text)), func(u string, _ int) bool {
		return musiclink.CanResolve(u)
	})

	return Message{
		Text:    text,
		Links:   links,
		Skipped: skipped,
	}
}

// ExtractLinks returns the distinct Yandex Music links in text.
func (p *Parser) ExtractLinks(text string) []string {
	return p.ParseMessage(text).Links
}

func (p *Parser) normalizeText(text string) string {
	text = norm.NFKC.String(text)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

func (p *Parser) extractURLs(text string) []string {
	matches := urlRegex.FindAllString(text, -1)
	cleanURLs := make([]string, 0, len(matches))

	for _, match := range matches {
		if cleanURL := p.cleanURL(match); cleanURL != "" {
			cleanURLs = append(cleanURLs, cleanURL)
		}
	}

	return cleanURLs
}

func (p *Parser) cleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;)")

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.RawQuery != "" {
		q := u.Query()
		for _, param := range trackingParams {
			q.Del(param)
		}
		u.RawQuery = q.Encode()
	}

	return u.String()
}
