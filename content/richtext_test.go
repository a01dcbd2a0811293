package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRichText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \n\t ", want: ""},
		{name: "plain text", in: "Hello world", want: "<p>Hello world</p>"},
		{name: "plain text is trimmed", in: "  spaced  ", want: "<p>spaced</p>"},
		{name: "escapes markup characters", in: "a < b & c > d", want: "<p>a &lt; b &amp; c &gt; d</p>"},
		{name: "keeps existing paragraph", in: "<p>ready</p>", want: "<p>ready</p>"},
		{name: "keeps tag with attributes", in: `<div class="x">y</div>`, want: `<div class="x">y</div>`},
		{name: "keeps leading whitespace before tag", in: "  <ul><li>a</li></ul>", want: "  <ul><li>a</li></ul>"},
		{name: "tag later in text is escaped", in: "see <b>this</b>", want: "<p>see &lt;b&gt;this&lt;/b&gt;</p>"},
		{name: "bare angle bracket", in: "< p>", want: "<p>&lt; p&gt;</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRichText(tt.in))
		})
	}
}

func TestNormalizeRichText_Idempotent(t *testing.T) {
	inputs := []string{
		"", "   ", "plain", "<p>x</p>", "a & b", "<notatag", "1 < 2", "<br/>", "\"quoted\" 'text'",
		"Line one\nLine two", "<em>already</em> mixed", "&amp; pre-escaped",
	}
	for _, in := range inputs {
		once := NormalizeRichText(in)
		assert.Equal(t, once, NormalizeRichText(once), "input %q", in)
	}
}

func TestNormalizeBlocks(t *testing.T) {
	got := NormalizeBlocks([]string{"first", "", "  ", "<p>second</p>"})
	assert.Equal(t, []string{"<p>first</p>", "<p>second</p>"}, got)
}
