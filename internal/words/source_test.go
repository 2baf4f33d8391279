package words

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource returns queued words/errors in order, then ErrUnavailable.
type stubSource struct {
	words []string
	errs  []error
	calls int
}

func (s *stubSource) Next(context.Context) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.words) {
		return s.words[i], nil
	}
	return "", ErrUnavailable
}

type setValidator map[string]bool

func (v setValidator) IsValid(_ context.Context, w string) (bool, error) { return v[w], nil }

func TestHTTPSource_Next(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["plant"]`))
	}))
	defer srv.Close()

	src := NewHTTPSource("test", srv.URL, time.Second)
	w, err := src.Next(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "PLANT", w)
}

func TestHTTPSource_Failures(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{"server error", http.StatusInternalServerError, ``},
		{"empty array", http.StatusOK, `[]`},
		{"not json", http.StatusOK, `plant`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource("test", srv.URL, time.Second).Next(context.Background())
			require.Error(t, err)
		})
	}
}

func TestChain_Pick(t *testing.T) {
	t.Run("first valid candidate wins", func(t *testing.T) {
		a := &stubSource{words: []string{"xxxxx"}}
		b := &stubSource{words: []string{"plant"}}
		c := &Chain{Providers: []Source{a, b}, Validator: setValidator{"PLANT": true}}

		w, fallback := c.Pick(context.Background())

		assert.Equal(t, "PLANT", w)
		assert.False(t, fallback)
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("errors and malformed words are skipped", func(t *testing.T) {
		a := &stubSource{errs: []error{errors.New("boom")}, words: []string{"", "toolong", "smart"}}
		c := &Chain{Providers: []Source{a}}

		w, fallback := c.Pick(context.Background())

		assert.Equal(t, "SMART", w)
		assert.False(t, fallback)
		assert.Equal(t, 3, a.calls)
	})

	t.Run("falls back after the attempt budget", func(t *testing.T) {
		a := &stubSource{}
		c := &Chain{Providers: []Source{a}, Attempts: 4, Fallback: []string{"CLOUD"}}

		w, fallback := c.Pick(context.Background())

		assert.Equal(t, "CLOUD", w)
		assert.True(t, fallback)
		assert.Equal(t, 4, a.calls)
	})

	t.Run("no providers uses default fallback list", func(t *testing.T) {
		w, fallback := (&Chain{}).Pick(context.Background())

		assert.True(t, fallback)
		assert.Contains(t, FallbackWords, w)
	})
}

func TestListSource(t *testing.T) {
	l, err := NewLists([]string{"ghost"}, nil)
	require.NoError(t, err)

	w, err := ListSource{Lists: l}.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GHOST", w)

	_, err = ListSource{}.Next(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
