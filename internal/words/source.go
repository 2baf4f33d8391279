// internal/words/source.go
//
// Secret-word sourcing.
// Responsibilities:
//   - Source: anything that can supply a candidate secret word.
//   - ListSource: random pick from loaded answers.
//   - HTTPSource: random-word APIs returning a JSON array (["plant"]).
//   - Chain: ordered provider chain with validation and a local static fallback.

package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnavailable is returned by a Source that cannot supply a word right now.
var ErrUnavailable = errors.New("word source unavailable")

// FallbackWords is the static list used when every provider fails.
var FallbackWords = []string{
	"ALONE", "SALON", "SNAIL", "BOARD", "PLANT", "CHAIR", "MOUSE", "LIGHT",
	"BRAVE", "HOUSE", "CLOUD", "GREEN", "SMART", "POINT", "DRIVE",
}

// Source supplies candidate secret words.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// ListSource picks uniformly from a fixed list.
type ListSource struct{ Lists *Lists }

// Next returns a random answer.
func (s ListSource) Next(context.Context) (string, error) {
	if s.Lists == nil {
		return "", ErrUnavailable
	}
	return s.Lists.Random(), nil
}

// HTTPSource fetches a random word from a JSON-array API.
type HTTPSource struct {
	Name   string
	URL    string
	Client *http.Client
}

// NewHTTPSource builds an HTTPSource with its own timeout-bounded client.
func NewHTTPSource(name, url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{Name: name, URL: url, Client: &http.Client{Timeout: timeout}}
}

// Next GETs the URL and returns the first array element, uppercased.
func (s *HTTPSource) Next(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-store")
	res, err := s.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.Name, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		return "", fmt.Errorf("%s: status %d: %w", s.Name, res.StatusCode, ErrUnavailable)
	}
	var data []string
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%s: decode: %w", s.Name, err)
	}
	if len(data) == 0 || data[0] == "" {
		return "", fmt.Errorf("%s: empty response: %w", s.Name, ErrUnavailable)
	}
	return Normalize(data[0]), nil
}

func (s *HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

// Chain tries providers in order, cycling, until one yields a well-formed
// word the validator accepts. After Attempts tries it falls back to a
// random pick from Fallback.
type Chain struct {
	Providers []Source
	Validator Validator // nil accepts every well-formed word
	Fallback  []string
	Attempts  int
}

// DefaultPickAttempts bounds how many provider calls Pick makes.
const DefaultPickAttempts = 10

// Pick returns a secret word and whether the static fallback was used.
func (c *Chain) Pick(ctx context.Context) (string, bool) {
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = DefaultPickAttempts
	}
	for i := 0; i < attempts && len(c.Providers) > 0; i++ {
		if ctx.Err() != nil {
			break
		}
		src := c.Providers[i%len(c.Providers)]
		w, err := src.Next(ctx)
		if err != nil {
			log.Debug().Err(err).Int("attempt", i+1).Msg("word source failed")
			continue
		}
		w = Normalize(w)
		if !IsWellFormed(w) {
			continue
		}
		if c.Validator != nil {
			ok, err := c.Validator.IsValid(ctx, w)
			if err != nil {
				log.Debug().Err(err).Str("word", w).Msg("validate candidate")
				continue
			}
			if !ok {
				continue
			}
		}
		return w, false
	}

	fb := c.Fallback
	if len(fb) == 0 {
		fb = FallbackWords
	}
	w := pick(fb)
	log.Warn().Int("providers", len(c.Providers)).Int("attempts", attempts).Msg("using fallback word")
	return w, true
}
