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

const plantEntry = `[{"word":"plant","phonetic":"/plɑːnt/","meanings":[
 {"partOfSpeech":"noun","definitions":[{"definition":"An organism that is not an animal."},{"definition":""}]},
 {"partOfSpeech":"verb","definitions":[{"definition":"To place in soil to grow."}]}]}]`

func newDictionaryServer(t *testing.T) *DictionaryAPI {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/entries/plant":
			_, _ = w.Write([]byte(plantEntry))
		case "/entries/broke":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return NewDictionaryAPI(srv.URL+"/entries/", time.Second)
}

func TestDictionaryAPI_IsValid(t *testing.T) {
	d := newDictionaryServer(t)
	ctx := context.Background()

	ok, err := d.IsValid(ctx, "PLANT")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsValid(ctx, "QQQQQ")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.IsValid(ctx, "BROKE")
	require.Error(t, err)
}

func TestDictionaryAPI_Define(t *testing.T) {
	d := newDictionaryServer(t)

	def, err := d.Define(context.Background(), "PLANT")

	require.NoError(t, err)
	assert.Equal(t, "PLANT", def.Word)
	require.Len(t, def.Meanings, 2)
	assert.Equal(t, "noun", def.Meanings[0].PartOfSpeech)
	assert.Equal(t, []string{"An organism that is not an animal."}, def.Meanings[0].Definitions)

	_, err = d.Define(context.Background(), "QQQQQ")
	assert.ErrorIs(t, err, ErrNoDefinition)
}

type errValidator struct{}

func (errValidator) IsValid(context.Context, string) (bool, error) {
	return false, errors.New("offline")
}

func TestFallbackValidator(t *testing.T) {
	local, err := NewLists([]string{"plant"}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	// Given: a primary that always errors
	v := FallbackValidator{Primary: errValidator{}, Secondary: local}

	// Then: the secondary decides
	ok, err := v.IsValid(ctx, "PLANT")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.IsValid(ctx, "MOUSE")
	require.NoError(t, err)
	assert.False(t, ok)

	// Given: a healthy primary
	v = FallbackValidator{Primary: local, Secondary: errValidator{}}
	ok, err = v.IsValid(ctx, "PLANT")
	require.NoError(t, err)
	assert.True(t, ok)

	// Given: no secondary, the primary error surfaces
	_, err = FallbackValidator{Primary: errValidator{}}.IsValid(ctx, "PLANT")
	require.Error(t, err)
}
