package dto

// QuoteRequest is the request body for creating or updating a quote.
// Field names follow the stored record format, so clients send the same
// shape they read back.
type QuoteRequest struct {
	// Text is the excerpt content. The service enforces the minimum
	// length and placeholder rules, so the DTO only requires presence.
	Text string `json:"quote" validate:"required,notempty"`

	// BookTitle is the source book. Blank falls back to the unknown-book label.
	BookTitle string `json:"bookTitle"`

	// Author is who wrote the book. Blank falls back to the unknown-author label.
	Author string `json:"author"`

	// PageNumber is free text ("12-13", "xiv").
	PageNumber string `json:"pageNumber"`

	// Category tags the quote. Blank means uncategorized.
	Category string `json:"category"`

	// Theme selects a card style. Unknown values fall back to the default theme.
	Theme string `json:"theme"`
}

// ListQuotesQuery carries the optional listing filters.
type ListQuotesQuery struct {
	// Search matches case-insensitively against text, book title, and author.
	Search string `form:"search"`

	// Category keeps only quotes tagged with exactly this category.
	Category string `form:"category"`
}

// AssignColorRequest is the request body for pinning a category color.
type AssignColorRequest struct {
	// Color must be one of the palette hex codes.
	Color string `json:"color" validate:"required,notempty"`
}

// StatsQuery carries the optional stats window override.
type StatsQuery struct {
	// Days is the recent-activity window. Zero or negative selects the default.
	Days int `form:"days"`
}

// RecognizeRequest is the request body for text recognition.
type RecognizeRequest struct {
	// Image is the base64-encoded page photo.
	Image string `json:"image" validate:"required,notempty"`

	// MimeType describes the image encoding (e.g. "image/jpeg").
	MimeType string `json:"mimeType"`
}
