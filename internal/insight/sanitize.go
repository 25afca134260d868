package insight

import (
	"regexp"
	"strings"
)

// Bullet is the only list marker allowed in assistant replies.
const Bullet = "•"

// hspace matches every character strings.TrimSpace treats as space except
// '\n', so line-anchored patterns see the same line start the final trim does.
const hspace = `[\t\v\f\x{85}\x{2028}\x{2029}\p{Zs}]`

var (
	codeFenceRe   = regexp.MustCompile("(?m)^" + hspace + "*```[\\w+-]*" + hspace + "*$")
	boldRe        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe      = regexp.MustCompile(`\*(.*?)\*`)
	inlineCodeRe  = regexp.MustCompile("`(.*?)`")
	headerRe      = regexp.MustCompile(`(?m)^` + hspace + `*(?:#+` + hspace + `*)+`)
	dashBulletRe  = regexp.MustCompile(`(?m)^(` + hspace + `*)-` + hspace + `+`)
	bulletSpaceRe = regexp.MustCompile(`(?m)^(` + hspace + `*)•` + hspace + `*`)
	// A digit right after the dot is a decimal ("6.1 magnitude"), not a list marker.
	numberSpaceRe   = regexp.MustCompile(`(?m)^(` + hspace + `*)(\d+\.)` + hspace + `*([^\d\s\v\x{85}\x{2028}\x{2029}\p{Zs}])`)
	trailingSpaceRe = regexp.MustCompile(`(?m)` + hspace + `+$`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// Sanitize turns model output into plain text: emphasis and inline code
// markers are removed (their content kept), leading header markers dropped,
// dash bullets rewritten to Bullet, list markers followed by exactly one
// space, runs of blank lines collapsed to one, and outer whitespace trimmed.
//
// Sanitize is idempotent. After the emphasis pass at most one '*' remains on
// any line, so a second pass has nothing left to pair up.
func Sanitize(text string) string {
	s := strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = codeFenceRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = headerRe.ReplaceAllString(s, "")
	s = dashBulletRe.ReplaceAllString(s, "${1}"+Bullet+" ")
	s = bulletSpaceRe.ReplaceAllString(s, "${1}"+Bullet+" ")
	s = numberSpaceRe.ReplaceAllString(s, "${1}${2} ${3}")
	s = trailingSpaceRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
