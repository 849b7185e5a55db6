package models

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"movie-catalog/internal/apperror"
	"movie-catalog/internal/validator"
)

// MovieInput is a validated movie payload. A nil field was absent from the
// payload; in partial mode absent fields keep their stored value.
type MovieInput struct {
	Title    *string
	Year     *int
	Director *string
	Duration *int
	Poster   *string
	Rate     *int
	Genres   []string
}

// HasGenres reports whether the payload supplied a genre list.
func (in *MovieInput) HasGenres() bool {
	return in.Genres != nil
}

// Apply copies every present field onto m, leaving the others untouched.
func (in *MovieInput) Apply(m *Movie) {
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Year != nil {
		m.Year = *in.Year
	}
	if in.Director != nil {
		m.Director = *in.Director
	}
	if in.Duration != nil {
		m.Duration = *in.Duration
	}
	if in.Poster != nil {
		m.Poster = *in.Poster
	}
	if in.Rate != nil {
		m.Rate = *in.Rate
	}
}

// ValidateMovie checks a complete movie payload. rate defaults to 0.
func ValidateMovie(payload map[string]any) (*MovieInput, error) {
	in, err := validateMovie(payload, false)
	if err != nil {
		return nil, err
	}
	if in.Rate == nil {
		zero := 0
		in.Rate = &zero
	}
	return in, nil
}

// ValidatePartialMovie checks an update payload: every field is optional but
// present fields obey the same rules as ValidateMovie.
func ValidatePartialMovie(payload map[string]any) (*MovieInput, error) {
	return validateMovie(payload, true)
}

func validateMovie(payload map[string]any, partial bool) (*MovieInput, error) {
	v := validator.New()
	in := &MovieInput{}
	currentYear := time.Now().Year()

	required := func(key string) (any, bool) {
		value, ok := payload[key]
		if !ok && !partial {
			v.AddError(key, key+" is required")
		}
		return value, ok
	}

	if raw, ok := required("title"); ok {
		if s, ok := stringField(v, "title", raw); ok {
			n := utf8.RuneCountInString(s)
			v.Check(n >= 1 && n <= 200, "title", "title must contain between 1 and 200 characters")
			in.Title = &s
		}
	}

	if raw, ok := required("year"); ok {
		if n, ok := intField(v, "year", raw); ok {
			v.Check(n >= 1900, "year", "year must be greater or equal than 1900")
			v.Check(n <= currentYear, "year", fmt.Sprintf("year must be less or equal than %d", currentYear))
			in.Year = &n
		}
	}

	if raw, ok := required("director"); ok {
		if s, ok := stringField(v, "director", raw); ok {
			n := utf8.RuneCountInString(s)
			v.Check(n >= 3 && n <= 200, "director", "director must contain between 3 and 200 characters")
			in.Director = &s
		}
	}

	if raw, ok := required("duration"); ok {
		if n, ok := intField(v, "duration", raw); ok {
			v.Check(n > 0, "duration", "duration must be a positive number")
			v.Check(n <= 500, "duration", "duration must be less or equal than 500")
			in.Duration = &n
		}
	}

	if raw, ok := required("poster"); ok {
		if s, ok := stringField(v, "poster", raw); ok {
			v.Check(isURL(s), "poster", "poster must be a valid URL")
			in.Poster = &s
		}
	}

	if raw, ok := required("genre"); ok {
		in.Genres = genreField(v, raw)
	}

	// rate is optional in both modes.
	if raw, ok := payload["rate"]; ok {
		if n, ok := intField(v, "rate", raw); ok {
			v.Check(n >= 0 && n <= 10, "rate", "rate must be between 0 and 10")
			in.Rate = &n
		}
	}

	if !v.Valid() {
		return nil, apperror.Validation(v.Errors)
	}
	return in, nil
}

func stringField(v *validator.Validator, key string, raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		v.AddError(key, key+" must be a string")
	}
	return s, ok
}

func intField(v *validator.Validator, key string, raw any) (int, bool) {
	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			v.AddError(key, key+" must be a number")
			return 0, false
		}
		f = parsed
	default:
		v.AddError(key, key+" must be a number")
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		v.AddError(key, key+" must be an integer")
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		v.AddError(key, key+" is out of range")
		return 0, false
	}
	return int(f), true
}

func genreField(v *validator.Validator, raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		if names, isStrings := raw.([]string); isStrings {
			items = make([]any, len(names))
			for i, name := range names {
				items[i] = name
			}
		} else {
			v.AddError("genre", "genre must be an array of enum Genre")
			return nil
		}
	}

	if len(items) == 0 {
		v.AddError("genre", "genre must contain at least 1 genre")
		return nil
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok || !validator.PermittedValue(name, GenreVocabulary...) {
			v.AddError("genre", fmt.Sprintf("genre must be one of %s, received %v", strings.Join(GenreVocabulary, ", "), item))
			continue
		}
		names = append(names, name)
	}
	v.Check(validator.Unique(names), "genre", "genre must not contain duplicate values")

	if v.Has("genre") {
		return nil
	}
	return names
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
