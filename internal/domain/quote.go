// Package domain contains core business entities and rules.
package domain

import "strings"

// DateLayout is the short-date format quotes carry, e.g. "24.02.2026".
// It matches the tr-TR locale format the mobile clients have always written,
// so existing libraries load unchanged.
const DateLayout = "02.01.2006"

// Default labels applied when a draft leaves book metadata blank.
const (
	// UnknownBook is the bookTitle stored for quotes saved without a title.
	UnknownBook = "Bilinmeyen Kitap"

	// UnknownAuthor is the author stored for quotes saved without an author.
	UnknownAuthor = "Bilinmeyen Yazar"

	// UncategorizedLabel is the grouping label for quotes without a category.
	// Used only in aggregations; the stored category stays empty.
	UncategorizedLabel = "Genel"
)

// MinQuoteLength is the minimum accepted length of quote text, in runes.
const MinQuoteLength = 5

// ScanPlaceholderFragment identifies the unedited capture-screen placeholder.
// A draft still containing it was never typed or scanned and must be rejected.
const ScanPlaceholderFragment = "taramak için kamerayı açın"

// Theme identifies the visual presentation style carried on a quote.
// It governs only how clients render the card; the core stores it as data.
type Theme string

// The fixed set of card themes.
const (
	ThemeClassic  Theme = "classic"
	ThemeModern   Theme = "modern"
	ThemeNature   Theme = "nature"
	ThemeVintage  Theme = "vintage"
	ThemeMidnight Theme = "midnight"
	ThemeRose     Theme = "rose"
	ThemeOcean    Theme = "ocean"
)

// DefaultTheme is applied when a draft carries no theme or an unknown one.
const DefaultTheme = ThemeClassic

// themes is the canonical enumeration, in display order.
var themes = []Theme{
	ThemeClassic,
	ThemeModern,
	ThemeNature,
	ThemeVintage,
	ThemeMidnight,
	ThemeRose,
	ThemeOcean,
}

// Themes returns the enumerated theme set in display order.
// The returned slice is a copy.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)

	return out
}

// ParseTheme normalizes a raw theme value, falling back to DefaultTheme for
// anything outside the enumerated set. It never fails: persisted data from
// older clients may carry arbitrary strings.
func ParseTheme(raw string) Theme {
	candidate := Theme(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range themes {
		if t == candidate {
			return t
		}
	}

	return DefaultTheme
}

// Quote is a saved excerpt with its book metadata.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID uniquely identifies the quote. Assigned at creation, never changed.
	ID string `json:"id"`

	// Text is the excerpt content.
	Text string `json:"quote"`

	// BookTitle is the source book, UnknownBook when not supplied.
	BookTitle string `json:"bookTitle"`

	// Author is who wrote the book, UnknownAuthor when not supplied.
	Author string `json:"author"`

	// PageNumber is where the excerpt appears. Kept as text: users type
	// things like "12-13" or "xiv".
	PageNumber string `json:"pageNumber,omitempty"`

	// Category is a free-form tag. Empty means uncategorized and is
	// serialized as the empty string, never dropped from the payload.
	Category string `json:"category"`

	// Theme is the card presentation style.
	Theme Theme `json:"theme"`

	// Date is the creation date in DateLayout form. Set once, immutable.
	Date string `json:"date"`
}

// CategoryColors maps a category name to its palette color token.
// Entries live independently of the quotes that reference the category:
// a color may outlive the last quote tagged with it.
type CategoryColors map[string]string

// CategoryPalette is the fixed set of color tokens a category may be assigned.
var CategoryPalette = []string{
	"#E3F2FD",
	"#FFF3E0",
	"#E8F5E9",
	"#FCE4EC",
	"#F3E5F5",
	"#E0F2F1",
	"#FFF8E1",
	"#EDE7F6",
}

// IsPaletteColor reports whether the token is part of CategoryPalette.
// Comparison is case-insensitive on the hex digits.
func IsPaletteColor(token string) bool {
	for _, c := range CategoryPalette {
		if strings.EqualFold(c, token) {
			return true
		}
	}

	return false
}

// NormalizeCategory trims a raw category tag. An all-whitespace tag
// normalizes to the empty string, which means "no category".
func NormalizeCategory(raw string) string {
	return strings.TrimSpace(raw)
}
