package tagged

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/slideua/font"
)

// substitutions replaces symbols the embedded fonts cannot draw with
// readable ASCII. Typographic quotes and dashes become plain ASCII too.
var substitutions = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\v", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
	"\t", " ",
	"\u00a0", " ",
	"\u2009", " ",
	"\u202f", " ",
	"\u200b", "",
	"📈", "[upward trend]",
	"↗", "[upward trend]",
	"📉", "[downward trend]",
	"↘", "[downward trend]",
	"📊", "[chart]",
	"↑", "[up]",
	"⬆", "[up]",
	"↓", "[down]",
	"⬇", "[down]",
	"→", "->",
	"➔", "->",
	"➜", "->",
	"👉", "->",
	"←", "<-",
	"↔", "<->",
	"⇒", "=>",
	"✓", "[check]",
	"✔", "[check]",
	"✅", "[check]",
	"☑", "[check]",
	"✗", "[x]",
	"✘", "[x]",
	"❌", "[x]",
	"☐", "[ ]",
	"⚠", "[warning]",
	"❗", "[!]",
	"★", "[star]",
	"⭐", "[star]",
	"💡", "[idea]",
	"📌", "[pin]",
	"🎯", "[target]",
	"🚀", "[rocket]",
	"📅", "[calendar]",
	"📧", "[e-mail]",
	"☎", "[phone]",
	"📞", "[phone]",
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"≈", "~",
	"−", "-",
	"‘", "'",
	"’", "'",
	"‚", ",",
	"‛", "'",
	"“", "\"",
	"”", "\"",
	"„", "\"",
	"‟", "\"",
	"–", "-",
	"—", "-",
	"\u2011", "-",
	"…", "...",
	"▪", "•",
	"■", "•",
	"●", "•",
	"◦", "•",
	"○", "•",
	"►", "•",
	"▶", "•",
	"✦", "•",
)

// Sanitize maps text onto the repertoire the embedded fonts can draw:
// known symbols are substituted, the result is NFC-normalized and any
// character still outside WinAnsi is dropped. Newlines are kept.
func Sanitize(s string) string {
	s = substitutions.Replace(s)
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || font.Encodable(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
