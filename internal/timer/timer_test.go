package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Find(t *testing.T) {
	l := sampleList()

	got, ok := l.Find("t2")
	require.True(t, ok)
	assert.Equal(t, "Clean Kitty Litter", got.Title)

	_, ok = l.Find("nope")
	assert.False(t, ok)
}

func TestList_Running(t *testing.T) {
	assert.Equal(t, 1, sampleList().Running())
	assert.Equal(t, 0, List{}.Running())
}

func TestList_CloneIsIndependent(t *testing.T) {
	l := sampleList()
	c := l.Clone()
	c[0].Title = "changed"

	assert.Equal(t, "Clean Bedroom", l[0].Title)
	assert.NotNil(t, List(nil).Clone())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, 1, g.Remaining())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })

	g.Push("c")
	assert.Equal(t, "c", g.Generate())
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00"},
		{999, "00:00:00"},
		{1000, "00:00:01"},
		{61000, "00:01:01"},
		{3600000, "01:00:00"},
		{1126099, "00:18:46"},
		{1129233498, "313:40:33"},
		{-5, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsed(tt.ms))
		})
	}
}
