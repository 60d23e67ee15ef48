package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeContent(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain content",
			input: "# Heading\n\nSome **bold** text.",
			want:  "# Heading\n\nSome **bold** text.",
		},
		{
			name:  "script tag",
			input: "<script>alert('pwned');</script>",
			want:  "",
		},
		{
			name:  "script tag with attributes",
			input: `before <SCRIPT SRC="evil.js"></SCRIPT> after`,
			want:  "before  after",
		},
		{
			name:  "script tag with spaced brackets",
			input: "text < script >alert(1)< / script > text",
			want:  "text  text",
		},
		{
			name:  "surrounding content survives",
			input: "intro <script>alert(1);</script> outro",
			want:  "intro  outro",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeContent(tc.input))
		})
	}
}
