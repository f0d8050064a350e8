package newsposts

// api_types.go defines the request and response bodies of the news posts API and their validation rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/newsposts/internal/database"
)

const (
	MaxHeaderLength = 50
	MaxTextLength   = 256
)

// Genre is the category of a news post
type Genre string

const (
	GenrePolitic  Genre = "Politic"
	GenreBusiness Genre = "Business"
	GenreSport    Genre = "Sport"
	GenreOther    Genre = "Other"
)

var validGenres = map[Genre]bool{
	GenrePolitic:  true,
	GenreBusiness: true,
	GenreSport:    true,
	GenreOther:    true,
}

func (g Genre) Valid() bool {
	return validGenres[g]
}

// CreateNewsPostRequest is the request body for POST /api/newsposts
type CreateNewsPostRequest struct {
	Header string `json:"header" example:"Elections announced"`
	Text   string `json:"text" example:"The general election will take place in May."`

	// Genre defaults to Other
	Genre *Genre `json:"genre,omitempty" example:"Politic"`

	// IsPrivate defaults to false
	IsPrivate *bool `json:"isPrivate,omitempty" example:"false"`
}

// UpdateNewsPostRequest is the request body for PUT /api/newsposts/{id}.
// Omitted fields keep their current value.
type UpdateNewsPostRequest struct {
	Header    *string `json:"header,omitempty" example:"Elections postponed"`
	Text      *string `json:"text,omitempty" example:"The general election has been moved to June."`
	Genre     *Genre  `json:"genre,omitempty" example:"Politic"`
	IsPrivate *bool   `json:"isPrivate,omitempty" example:"true"`
}

// NewsPostResponse is a news post as returned by the API
type NewsPostResponse struct {
	ID        string    `json:"id" example:"6f0c8e86-9b38-4a56-9d59-0e4a8e0c2d4b"`
	Header    string    `json:"header" example:"Elections announced"`
	Text      string    `json:"text" example:"The general election will take place in May."`
	Genre     Genre     `json:"genre" example:"Politic"`
	IsPrivate bool      `json:"isPrivate" example:"false"`
	CreatedAt time.Time `json:"createdAt" example:"2026-01-02T15:04:05Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2026-01-02T15:04:05Z"`
}

// NewsPostListResponse is a page of news posts, newest first
type NewsPostListResponse struct {
	Items []NewsPostResponse `json:"items"`
	Total int64              `json:"total" example:"42"`
	Page  int32              `json:"page" example:"0"`
	Size  int32              `json:"size" example:"10"`
}

func NewsPostToResponse(post database.NewsPost) NewsPostResponse {
	return NewsPostResponse{
		ID:        post.ID.String(),
		Header:    post.Header,
		Text:      post.Text,
		Genre:     Genre(post.Genre),
		IsPrivate: post.IsPrivate,
		CreatedAt: post.CreatedAt.UTC(),
		UpdatedAt: post.UpdatedAt.UTC(),
	}
}

// DecodeJSONBody decodes the request body into dst. The body must hold exactly one
// JSON value; unknown fields are ignored.
// A body that exceeds the size limit keeps its *http.MaxBytesError so it is reported as 413.
func DecodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return NewMalformedRequestError("request body is required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return WrapMalformedRequestError(err, "failed to decode request JSON")
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return NewMalformedRequestError("request body must contain a single JSON value")
		}
		return WrapMalformedRequestError(err, "request body must contain a single JSON value")
	}
	return nil
}

func validateHeader(header string) error {
	if strings.TrimSpace(header) == "" {
		return NewValidationError("header is required")
	}
	if utf8.RuneCountInString(header) > MaxHeaderLength {
		return NewValidationError(fmt.Sprintf("header must be at most %d characters", MaxHeaderLength))
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return NewValidationError(fmt.Sprintf("text must be at most %d characters", MaxTextLength))
	}
	return nil
}

func validateGenre(genre Genre) error {
	if !genre.Valid() {
		return NewValidationError(fmt.Sprintf("genre must be one of Politic, Business, Sport, Other (got %q)", genre))
	}
	return nil
}

// Validate checks the request and fills in defaults.
func (req *CreateNewsPostRequest) Validate() error {
	if err := validateHeader(req.Header); err != nil {
		return err
	}
	if err := validateText(req.Text); err != nil {
		return err
	}
	if req.Genre == nil {
		genre := GenreOther
		req.Genre = &genre
	}
	if err := validateGenre(*req.Genre); err != nil {
		return err
	}
	if req.IsPrivate == nil {
		isPrivate := false
		req.IsPrivate = &isPrivate
	}
	return nil
}

// Validate checks at least one field is present and every present field is valid
func (req *UpdateNewsPostRequest) Validate() error {
	if req.Header == nil && req.Text == nil && req.Genre == nil && req.IsPrivate == nil {
		return NewValidationError("at least one of header, text, genre or isPrivate is required")
	}
	if req.Header != nil {
		if err := validateHeader(*req.Header); err != nil {
			return err
		}
	}
	if req.Text != nil {
		if err := validateText(*req.Text); err != nil {
			return err
		}
	}
	if req.Genre != nil {
		if err := validateGenre(*req.Genre); err != nil {
			return err
		}
	}
	return nil
}

// Params converts the request to update parameters. Omitted fields stay nil so the
// query keeps their current value in the same statement.
func (req *UpdateNewsPostRequest) Params(id uuid.UUID) database.UpdateNewsPostParams {
	params := database.UpdateNewsPostParams{
		ID:        id,
		Header:    req.Header,
		Text:      req.Text,
		IsPrivate: req.IsPrivate,
	}
	if req.Genre != nil {
		genre := string(*req.Genre)
		params.Genre = &genre
	}
	return params
}

// Pagination is the page requested with the page and size query parameters
type Pagination struct {
	Page int32
	Size int32
}

func (p Pagination) Offset() int32 {
	return p.Page * p.Size
}

// ParsePagination reads page (zero based, default 0) and size (default defaultSize, at most maxSize)
func ParsePagination(query url.Values, defaultSize, maxSize int32) (Pagination, error) {
	p := Pagination{Page: 0, Size: defaultSize}

	if v := query.Get("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 0 {
			return p, NewMalformedRequestError("page must be a non-negative integer")
		}
		p.Page = int32(page)
	}

	if v := query.Get("size"); v != "" {
		size, err := strconv.ParseInt(v, 10, 32)
		if err != nil || size < 1 || size > int64(maxSize) {
			return p, NewMalformedRequestError(fmt.Sprintf("size must be an integer between 1 and %d", maxSize))
		}
		p.Size = int32(size)
	}

	// keep the offset inside int32
	if int64(p.Page)*int64(p.Size) > int64(^uint32(0)>>1) {
		return p, NewMalformedRequestError("page is out of range")
	}

	return p, nil
}
