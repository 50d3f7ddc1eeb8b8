package schemas

import (
	"time"

	"github.com/google/uuid"
)

// ResponseDTO is the envelope of every JSON response
// IsSuccess tells whether the operation succeeded
// Message is a human readable outcome
type ResponseDTO struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
}

// ErrorDTO is a struct that represents an error response
// It carries the envelope fields plus the stable error code, see CustomError
type ErrorDTO struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Code      string `json:"code"`
}

// NewErrorDTO builds the error envelope for a catalog entry.
func NewErrorDTO(customErr *CustomError) *ErrorDTO {
	return &ErrorDTO{
		IsSuccess: false,
		Message:   customErr.Message,
		Code:      customErr.Code,
	}
}

// ProfileDTO is a struct that represents the profile of the authenticated user
type ProfileDTO struct {
	IsSuccess bool   `json:"isSuccess"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// LinkDTO is a struct that represents a short link in a listing
// CreatedAt is rendered in the configured fixed offset
type LinkDTO struct {
	ID        uuid.UUID `json:"id"`
	FullUrl   string    `json:"fullUrl"`
	ShortUrl  string    `json:"shortUrl"`
	Clicks    int64     `json:"clicks"`
	CreatedAt string    `json:"createdAt"`
	User      uuid.UUID `json:"user"`
	Username  string    `json:"username"`
}

// NewLinkDTO converts a stored link, rendering its creation time in the given location.
func NewLinkDTO(link *Link, location *time.Location) *LinkDTO {
	return &LinkDTO{
		ID:        link.ID,
		FullUrl:   link.FullUrl,
		ShortUrl:  link.ShortUrl,
		Clicks:    link.Clicks,
		CreatedAt: link.CreatedAt.In(location).Format(time.RFC3339),
		User:      link.UserID,
		Username:  link.Username,
	}
}
