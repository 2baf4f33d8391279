package words

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLists_Embedded(t *testing.T) {
	l, err := LoadLists("", "")
	require.NoError(t, err)

	answers, allowed := l.Stats()
	assert.Positive(t, answers)
	assert.Greater(t, allowed, answers)

	// Then: answers are allowed and lookups ignore case
	assert.True(t, l.IsAnswer("robot"))
	assert.True(t, l.IsAllowed("ROBOT"))
	assert.True(t, l.IsAllowed("papal"))
	assert.False(t, l.IsAnswer("PAPAL"))
	assert.False(t, l.IsAllowed("QQQQQ"))

	ok, err := l.IsValid(context.Background(), "Plant")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadLists_Files(t *testing.T) {
	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.txt")
	allowed := filepath.Join(dir, "allowed.txt")
	require.NoError(t, os.WriteFile(answers, []byte("crane\nToo long\nab1de\n  SLATE \n"), 0o644))
	require.NoError(t, os.WriteFile(allowed, []byte("adieu\n"), 0o644))

	t.Run("both files", func(t *testing.T) {
		l, err := LoadLists(answers, allowed)
		require.NoError(t, err)
		assert.Equal(t, []string{"CRANE", "SLATE"}, l.Answers())
		assert.True(t, l.IsAllowed("adieu"))
		assert.False(t, l.IsAnswer("adieu"))
	})

	t.Run("allowed only doubles as answers", func(t *testing.T) {
		l, err := LoadLists("", allowed)
		require.NoError(t, err)
		assert.Equal(t, []string{"ADIEU"}, l.Answers())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLists(filepath.Join(dir, "nope.txt"), allowed)
		require.Error(t, err)
	})
}

func TestNewLists_Empty(t *testing.T) {
	_, err := NewLists([]string{"toolong", "abc"}, nil)
	require.ErrorIs(t, err, ErrEmptyAnswers)
}

func TestLists_Random(t *testing.T) {
	l, err := NewLists([]string{"crane", "slate"}, nil)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		assert.Contains(t, []string{"CRANE", "SLATE"}, l.Random())
	}
}
