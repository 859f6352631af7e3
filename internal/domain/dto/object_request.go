package dto

import (
	"unicode/utf8"

	"gallery/internal/domain/model"
)

const (
	MaxTitleLen       = 120
	MaxDescriptionLen = 500
)

// CreateObjectRequest carries upload metadata and the optional payload.
type CreateObjectRequest struct {
	Title        string
	Description  string
	OriginalName string
	MimeType     string
	Body         []byte
}

func (r CreateObjectRequest) Validate() error {
	if err := validateText(r.Title, r.Description); err != nil {
		return err
	}

	if r.Body != nil && len(r.Body) == 0 {
		return model.NewValidationError("file", "is empty")
	}

	return nil
}

// UpdateObjectRequest edits user text. Status is never user editable.
type UpdateObjectRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateObjectRequest) Validate() error {
	if r.Title == nil && r.Description == nil {
		return model.NewValidationError("", "nothing to update")
	}

	var title, description string
	if r.Title != nil {
		title = *r.Title
	}

	if r.Description != nil {
		description = *r.Description
	}

	return validateText(title, description)
}

func validateText(title, description string) error {
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return model.NewValidationError("title", "must be at most 120 characters")
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return model.NewValidationError("description", "must be at most 500 characters")
	}

	return nil
}

// DownloadURL is a time limited link to the current blob of an object.
type DownloadURL struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}
