package model

import "time"

// Showcase types distinguish what kind of AI output a showcase presents.
const (
	ShowcaseTypeImageRendering = "image_rendering"
	ShowcaseTypeTextGeneration = "text_generation"
)

// Source file types for text-generation showcases built from a document.
const (
	SourceFileTypePDF  = "pdf"
	SourceFileTypeDocx = "docx"
	SourceFileTypeText = "text"
)

// Showcase represents a row in the `showcases` table.  A showcase is a
// user-published piece of AI-generated work: either an image rendering
// (source image + result image) or a text generation (prompt + generated
// text, optionally derived from an uploaded source document).  The
// type-specific columns are nullable and only populated for the matching
// ShowcaseType.
type Showcase struct {
	ID            string    // showcases.id (UUID)
	UserID        string    // showcases.user_id (owner)
	Title         string    // showcases.title
	Description   *string   // showcases.description (nullable)
	MediaMetadata string    // showcases.media_metadata (JSON document, defaults to {"files": []})
	ViewCount     int       // showcases.view_count
	IsPublished   bool      // showcases.is_published
	ShowcaseType  string    // showcases.showcase_type (image_rendering | text_generation)
	Prompt        string    // showcases.prompt

	// Image rendering fields
	SourceImageURL *string // showcases.source_image_url (nullable)
	ResultImageURL *string // showcases.result_image_url (nullable)

	// Text generation fields
	GeneratedText  *string // showcases.generated_text (nullable)
	SourceText     *string // showcases.source_text (nullable)
	SourceFileURL  *string // showcases.source_file_url (nullable)
	SourceFileType *string // showcases.source_file_type (pdf | docx | text, nullable)

	CreatedAt time.Time // showcases.created_at
	UpdatedAt time.Time // showcases.updated_at
}
