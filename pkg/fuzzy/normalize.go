// Package fuzzy folds artist names and track titles into keys that survive
// the cosmetic differences between releases of the same recording.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	bracketVersionRegex = regexp.MustCompile(
		`(?i)\s*[\(\[][^\)\]]*\b(?:feat|ft|featuring|remaster(?:ed)?|deluxe|extended|radio edit|clean|explicit|mono|stereo|version)\b[^\)\]]*[\)\]]`)
	dashVersionRegex = regexp.MustCompile(
		`(?i)\s+-\s+[^-]*\b(?:remaster(?:ed)?|radio edit|extended|mono|stereo|version|live)\b.*$`)
	trailingFeatRegex = regexp.MustCompile(`(?i)\s+(?:feat\.?|ft\.?|featuring)\s+.*$`)
	punctRegex        = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// yoReplacer folds the Cyrillic letters Yandex catalogs spell inconsistently.
var yoReplacer = strings.NewReplacer("ё", "е", "Ё", "Е")

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeArtist lowercases and strips diacritics and punctuation; "&" and "and" are equivalent.
func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = strings.ReplaceAll(artist, "&", " and ")
	artist = trailingFeatRegex.ReplaceAllString(artist, "")
	return n.basicNormalize(artist)
}

// NormalizeTitle removes featured artists and release-version decorations before normalizing.
func (n *Normalizer) NormalizeTitle(title string) string {
	title = bracketVersionRegex.ReplaceAllString(title, "")
	title = dashVersionRegex.ReplaceAllString(title, "")
	title = trailingFeatRegex.ReplaceAllString(title, "")
	return n.basicNormalize(title)
}

// RecordingKey identifies a recording by artist and title. It is empty when either part
// normalizes to nothing.
func (n *Normalizer) RecordingKey(artist, title string) string {
	a := n.NormalizeArtist(artist)
	t := n.NormalizeTitle(title)
	if a == "" || t == "" {
		return ""
	}
	return a + " - " + t
}

func (n *Normalizer) basicNormalize(text string) string {
	text = yoReplacer.Replace(text)
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	return strings.TrimSpace(strings.ToLower(text))
}
