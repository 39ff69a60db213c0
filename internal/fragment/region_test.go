package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testMarkers = Markers{Start: "# BEGIN", End: "# END"}

func TestFilter(t *testing.T) {
	tests := map[string]struct {
		text string
		want []string
	}{
		"no start marker blanks every line": {
			text: "a\nb\nc",
			want: []string{"", "", ""},
		},
		"empty text is a single blank line": {
			text: "",
			want: []string{""},
		},
		"region at top of file": {
			text: "# BEGIN\nX = 1\n# END",
			want: []string{"# BEGIN", "X = 1", "# END"},
		},
		"prefix is blanked and suffix dropped": {
			text: "A\nB\n# BEGIN\nX = 2\n# END\nafter\nmore",
			want: []string{"", "", "# BEGIN", "X = 2", "# END"},
		},
		"stops at the first end marker": {
			text: "# BEGIN\nx\n# END\n# BEGIN\ny\n# END",
			want: []string{"# BEGIN", "x", "# END"},
		},
		"end marker before start marker is ignored": {
			text: "# END\n# BEGIN\nx\n# END\ntail",
			want: []string{"", "# BEGIN", "x", "# END"},
		},
		"missing end marker keeps the rest": {
			text: "pre\n# BEGIN\nx\ny",
			want: []string{"", "# BEGIN", "x", "y"},
		},
		"blank lines inside region are kept": {
			text: "# BEGIN\n\nx\n\n# END\n",
			want: []string{"# BEGIN", "", "x", "", "# END"},
		},
		"crlf lines match the markers": {
			text: "A\r\nB\r\n# BEGIN\r\nX = 2\r\n# END\r\ntail\r\n",
			want: []string{"", "", "# BEGIN\r", "X = 2\r", "# END\r"},
		},
		"marker match is exact": {
			text: "  # BEGIN\nx\n# BEGIN \n",
			want: []string{"", "", "", ""},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(tt.text, testMarkers))
		})
	}
}

func TestFilter_TruncatesAfterEndMarker(t *testing.T) {
	text := "l0\nl1\n# BEGIN\nbody\n# END\nl5\nl6"
	view := Filter(text, testMarkers)

	// start marker at index 2, end marker at index 4
	assert.Len(t, view, 5)
	for i := 0; i < 2; i++ {
		assert.Empty(t, view[i], "index %d should be blank", i)
	}
	assert.Equal(t, []string{"# BEGIN", "body", "# END"}, view[2:])
}

func TestLeadingEmpty(t *testing.T) {
	assert.Equal(t, 0, LeadingEmpty(nil))
	assert.Equal(t, 0, LeadingEmpty([]string{"x", ""}))
	assert.Equal(t, 2, LeadingEmpty([]string{"", "", "x", ""}))
	assert.Equal(t, 3, LeadingEmpty([]string{"", "", ""}))
}

func TestModule(t *testing.T) {
	view := Filter("a\nb\n# BEGIN\nx\n# END\nc", testMarkers)
	assert.Equal(t, []string{"# BEGIN", "x", "# END"}, Module(view))
	assert.Empty(t, Module(Filter("a\nb", testMarkers)))
}

func TestHasFragment(t *testing.T) {
	assert.True(t, HasFragment(Filter("a\n# BEGIN\n# END", testMarkers)))
	assert.False(t, HasFragment(Filter("a\nb\n# END", testMarkers)))
	assert.False(t, HasFragment(nil))
	assert.True(t, HasFragment(Filter("A\r\n# BEGIN\r\nx\r\n# END\r\n", testMarkers)))
}
