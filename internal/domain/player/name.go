package player

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
)

// aliases maps provider spellings to the key used by the player pool.
// Keys and values are already normalized.
var aliases = map[string]string{
	"mohammad siraj":             "mohammed siraj",
	"md siraj":                   "mohammed siraj",
	"mohammad shami":             "mohammed shami",
	"ms dhoni":                   "mahendra singh dhoni",
	"m s dhoni":                  "mahendra singh dhoni",
	"rohit gurunath sharma":      "rohit sharma",
	"suryakumar ashok yadav":     "suryakumar yadav",
	"surya kumar yadav":          "suryakumar yadav",
	"varun chakaravarthy":        "varun chakravarthy",
	"quinton de kock":            "quinton dekock",
	"q de kock":                  "quinton dekock",
	"rassie van der dussen":      "rassie vandussen",
	"hd van der dussen":          "rassie vandussen",
	"mitch marsh":                "mitchell marsh",
	"mitchell r marsh":           "mitchell marsh",
	"rahmanullah gurbaaz":        "rahmanullah gurbaz",
	"mujeeb ur rahman":           "mujeeb zadran",
	"mujeeb ur rahman zadran":    "mujeeb zadran",
	"litton kumer das":           "litton das",
	"liton das":                  "litton das",
	"mohammad rizwan":            "muhammad rizwan",
	"shaheen afridi":             "shaheen shah afridi",
	"wanindu hasaranga de silva": "wanindu hasaranga",
	"pathum nissanka silva":      "pathum nissanka",
}

// CanonicalName normalizes a free-text player name into a stable join key.
// Empty or symbol-only input returns "".
func CanonicalName(raw string) string {
	if raw == "" {
		return ""
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	pendingSpace := false
	for _, r := range strings.ToLower(raw) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		pendingSpace = false
		buf.B = utf8.AppendRune(buf.B, r)
	}

	key := buf.String()
	if alias, ok := aliases[key]; ok {
		return alias
	}
	return key
}

// SameName reports whether two raw names resolve to the same non-empty key.
func SameName(left, right string) bool {
	key := CanonicalName(left)
	return key != "" && key == CanonicalName(right)
}
