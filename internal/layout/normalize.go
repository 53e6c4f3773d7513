package layout

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceReplacer = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u2007", " ", // figure space
	"\u202f", " ", // narrow no-break space
	"\u2212", "-", // minus sign
	"\u2013", "-", // en dash
)

// NormalizeGlyphs folds compatibility characters (ligatures, full-width digits)
// and odd spaces so the grammars only see plain ASCII punctuation.
func NormalizeGlyphs(s string) string {
	if s == "" {
		return s
	}
	return spaceReplacer.Replace(norm.NFKC.String(s))
}
