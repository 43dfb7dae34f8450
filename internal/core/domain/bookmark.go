package domain

import (
	"strings"
	"time"
)

// MaxTextPreviewLength bounds the stored verse preview, in characters.
const MaxTextPreviewLength = 200

// Bookmark is a verse saved by a user. A user holds at most one bookmark per verse key.
type Bookmark struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	VerseKey    string    `json:"verse_key"`
	ChapterID   int       `json:"chapter_id"`
	VerseNumber int       `json:"verse_number"`
	TextPreview string    `json:"text_preview"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateBookmarkRequest is the body of a bookmark creation.
type CreateBookmarkRequest struct {
	VerseKey    string `json:"verse_key"`
	ChapterID   int    `json:"chapter_id"`
	VerseNumber int    `json:"verse_number"`
	TextPreview string `json:"text_preview"`
}

// Validate requires verse_key, chapter_id and verse_number.
func (r *CreateBookmarkRequest) Validate() error {
	if strings.TrimSpace(r.VerseKey) == "" || r.ChapterID <= 0 || r.VerseNumber <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// TruncatePreview cuts s to MaxTextPreviewLength characters.
func TruncatePreview(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTextPreviewLength {
		return s
	}
	return string(runes[:MaxTextPreviewLength])
}
