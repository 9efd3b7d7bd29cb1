package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptionStripsScripts(t *testing.T) {
	s := New()

	got := s.Description(`<p>Good game.</p><script>alert("xss")</script>`)

	assert.Equal(t, "<p>Good game.</p>", got)
}

func TestDescriptionKeepsBasicMarkup(t *testing.T) {
	s := New()

	in := "<p><strong>Lorem</strong> ipsum <em>dolor</em></p><ul><li>one</li></ul>"
	assert.Equal(t, in, s.Description(in))
}

func TestDescriptionDropsEventAttributes(t *testing.T) {
	s := New()

	got := s.Description(`<p onclick="evil()">text</p>`)

	assert.Equal(t, "<p>text</p>", got)
}

func TestDescriptionIsIdempotent(t *testing.T) {
	s := New()

	in := `<p>An <em>atmospheric</em> puzzler.<iframe src="https://evil.example"></iframe></p>`
	once := s.Description(in)
	assert.Equal(t, once, s.Description(once))
}

func TestExcerpt(t *testing.T) {
	s := New()

	got := s.Excerpt("<p>An  open   world\nadventure with secrets.</p>", 100)
	assert.Equal(t, "An open world adventure with secrets.", got)
}

func TestExcerptTrimsAtWordBoundary(t *testing.T) {
	s := New()

	got := s.Excerpt("<p>one two three four five</p>", 10)

	assert.Equal(t, "one two…", got)
}

func TestExcerptEmptyInput(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.Excerpt("", 50))
}
