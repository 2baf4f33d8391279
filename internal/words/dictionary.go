package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Validator confirms that a word is admissible.
type Validator interface {
	IsValid(ctx context.Context, word string) (bool, error)
}

// Definer looks up dictionary definitions.
type Definer interface {
	Define(ctx context.Context, word string) (Definition, error)
}

// ErrNoDefinition is returned when the dictionary has no entry for a word.
var ErrNoDefinition = errors.New("no definition found")

// DefaultDictionaryURL is the free dictionary API entries endpoint.
const DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"

// DictionaryAPI talks to a dictionaryapi.dev compatible service.
// 200 means the word exists, 404 means it does not.
type DictionaryAPI struct {
	BaseURL string
	Client  *http.Client
}

// NewDictionaryAPI builds a client with a request timeout.
func NewDictionaryAPI(baseURL string, timeout time.Duration) *DictionaryAPI {
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	return &DictionaryAPI{BaseURL: baseURL, Client: &http.Client{Timeout: timeout}}
}

// Meaning is one part-of-speech group of definitions.
type Meaning struct {
	PartOfSpeech string   `json:"partOfSpeech"`
	Definitions  []string `json:"definitions"`
}

// Definition is the trimmed-down dictionary entry shown on reveal.
type Definition struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic,omitempty"`
	Meanings []Meaning `json:"meanings"`
}

// entry mirrors the upstream response shape.
type entry struct {
	Word     string `json:"word"`
	Phonetic string `json:"phonetic"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func (d *DictionaryAPI) get(ctx context.Context, word string) (*http.Response, error) {
	u := strings.TrimRight(d.BaseURL, "/") + "/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c := d.Client
	if c == nil {
		c = http.DefaultClient
	}
	return c.Do(req)
}

// IsValid implements Validator.
func (d *DictionaryAPI) IsValid(ctx context.Context, word string) (bool, error) {
	res, err := d.get(ctx, word)
	if err != nil {
		return false, fmt.Errorf("dictionary: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("dictionary: unexpected status %d", res.StatusCode)
	}
}

// Define implements Definer.
func (d *DictionaryAPI) Define(ctx context.Context, word string) (Definition, error) {
	res, err := d.get(ctx, word)
	if err != nil {
		return Definition{}, fmt.Errorf("dictionary: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return Definition{}, ErrNoDefinition
	}
	if res.StatusCode != http.StatusOK {
		return Definition{}, fmt.Errorf("dictionary: unexpected status %d", res.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(res.Body).Decode(&entries); err != nil {
		return Definition{}, fmt.Errorf("dictionary: decode: %w", err)
	}
	if len(entries) == 0 {
		return Definition{}, ErrNoDefinition
	}

	e := entries[0]
	out := Definition{Word: Normalize(e.Word), Phonetic: e.Phonetic, Meanings: []Meaning{}}
	for _, m := range e.Meanings {
		mm := Meaning{PartOfSpeech: m.PartOfSpeech}
		for _, def := range m.Definitions {
			if def.Definition != "" {
				mm.Definitions = append(mm.Definitions, def.Definition)
			}
		}
		out.Meanings = append(out.Meanings, mm)
	}
	return out, nil
}

// FallbackValidator asks Primary and only consults Secondary when Primary errors.
type FallbackValidator struct {
	Primary   Validator
	Secondary Validator
}

// IsValid implements Validator.
func (f FallbackValidator) IsValid(ctx context.Context, word string) (bool, error) {
	ok, err := f.Primary.IsValid(ctx, word)
	if err == nil || f.Secondary == nil {
		return ok, err
	}
	log.Warn().Err(err).Msg("primary validator failed; using secondary")
	return f.Secondary.IsValid(ctx, word)
}
