package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrQueryRequired is returned when a recommend request carries no query text.
var ErrQueryRequired = errors.New("query is required")

var validate = validator.New()

// RecommendRequest is the body of a recommend call.
// URL is accepted for compatibility but never fetched.
type RecommendRequest struct {
	Query string `json:"query" validate:"required"`
	URL   string `json:"url,omitempty" validate:"omitempty,url"`
	Limit int    `json:"limit,omitempty" validate:"gte=0"`
}

// Validate trims the query, checks the request and normalizes Limit:
// zero becomes defaultLimit and anything above maxLimit is capped.
func (r *RecommendRequest) Validate(defaultLimit, maxLimit int) error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrQueryRequired
	}
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if maxLimit > 0 && r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	return nil
}
