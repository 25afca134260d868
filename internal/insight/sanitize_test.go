package insight

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "emphasis and blank run",
			in:   "**Strongest** was *M6.1* in Tonga\n\n\n\nStay safe",
			want: "Strongest was M6.1 in Tonga\n\nStay safe",
		},
		{
			name: "inline code",
			in:   "Query `mag >= 4.5` events",
			want: "Query mag >= 4.5 events",
		},
		{
			name: "headers",
			in:   "## Summary\n### Details here\n#Tight",
			want: "Summary\nDetails here\nTight",
		},
		{
			name: "dash bullets",
			in:   "Regions:\n- Alaska\n-   Tonga\n  - Chile",
			want: "Regions:\n• Alaska\n• Tonga\n  • Chile",
		},
		{
			name: "bullet and number spacing",
			in:   "•Alaska\n•    Tonga\n1.First\n2.    Second",
			want: "• Alaska\n• Tonga\n1. First\n2. Second",
		},
		{
			name: "decimals are not list markers",
			in:   "6.1 was the largest\nM 4.5 events: 3",
			want: "6.1 was the largest\nM 4.5 events: 3",
		},
		{
			name: "mid-line dash is kept",
			in:   "A M5.0 - shallow - event",
			want: "A M5.0 - shallow - event",
		},
		{
			name: "code fence lines dropped",
			in:   "Here:\n```json\n{\"mag\": 6.1}\n```\nDone",
			want: "Here:\n\n{\"mag\": 6.1}\n\nDone",
		},
		{
			name: "whitespace-only lines collapse",
			in:   "a\n  \n\t\n \nb",
			want: "a\n\nb",
		},
		{
			name: "crlf and outer whitespace",
			in:   "\r\n  Hello\r\nthere  \r\n\r\n",
			want: "Hello\nthere",
		},
		{
			name: "triple emphasis",
			in:   "***Alert*** issued",
			want: "Alert issued",
		},
		{
			name: "unicode space before header",
			in:   "\u00a0# Title\nok\n\u3000## Sub",
			want: "Title\nok\nSub",
		},
		{
			name: "form feed and ideographic space before markers",
			in:   "\f- item\n\u3000•x\n\v1.\u00a0first",
			want: "• item\n\u3000• x\n\v1. first",
		},
		{
			name: "plain text untouched",
			in:   "Quiet day. 12 events, none above M4.",
			want: "Quiet day. 12 events, none above M4.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

var sanitizeCorpus = []string{
	"",
	"   ",
	"**Strongest** was *M6.1* in Tonga\n\n\n\nStay safe",
	"# Title\n## Sub\n- a\n- b\n\n\n\n1.one\n2.two",
	"***bold italic*** and **unclosed",
	"*a*b*c*d*",
	"`*`*",
	"a`*`b`*`c",
	"- - nested dash",
	"-  \n-\n- x",
	"## # double header",
	"####### seven",
	"• •x",
	"1.•x\n10.  ten",
	"```\ncode\n```\n\n\n```go\nfmt.Println()\n```",
	"**a** **b** *c* `d` # not header\n   ### indented header",
	"line with trailing spaces   \n\n\n\n\n   \n",
	"*#*x",
	"`#` hash in code",
	"\r\n\r\n\r\n- windows\r\n",
	"\u00a0# Title",
	"\f- item",
	"\v\u3000## x\n\u2028- y",
	"a\n\u00a0\u00a0\n\n\n\u205f1.\u00a0z",
	"\u0085```go\u00a0\nx\n```",
}

func TestSanitize_Idempotent(t *testing.T) {
	for _, in := range sanitizeCorpus {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitize_RemovesEmphasisAndHeaders(t *testing.T) {
	for _, in := range sanitizeCorpus {
		out := Sanitize(in)
		assert.NotContains(t, out, "**", "input %q", in)
		for _, line := range strings.Split(out, "\n") {
			assert.False(t, strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#"), "input %q line %q", in, line)
		}
		assert.NotContains(t, out, "\n\n\n", "input %q", in)
	}
}

func FuzzSanitize(f *testing.F) {
	for _, in := range sanitizeCorpus {
		f.Add(in)
	}
	f.Fuzz(func(t *testing.T, in string) {
		if !utf8.ValidString(in) {
			t.Skip()
		}
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
		for _, line := range strings.Split(once, "\n") {
			if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#") {
				t.Fatalf("header marker survived for %q: %q", in, line)
			}
		}
	})
}
