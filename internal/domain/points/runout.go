package points

import (
	"regexp"
	"strings"
)

// RunOutParser extracts the fielders credited in a run-out dismissal.
// One fielder is a direct run-out; several are each indirect.
type RunOutParser interface {
	Fielders(dismissal string) []string
}

var (
	runOutWordRegex  = regexp.MustCompile(`(?i)\brun\s*out\b`)
	runOutParenRegex = regexp.MustCompile(`(?i)\brun\s*out\s*\(([^)]*)\)`)
	runOutBareRegex  = regexp.MustCompile(`(?i)\brun\s*out\s+([^()]+?)\s*$`)
	runOutSplitRegex = regexp.MustCompile(`\s*[/&,]\s*`)
	substitutePrefix = regexp.MustCompile(`(?i)^sub\b\s*`)
)

// RegexRunOutParser reads fielder names from free-text dismissals such as
// "run out (Jadeja/Pant)" or "run out Jadeja".
type RegexRunOutParser struct{}

func (RegexRunOutParser) Fielders(dismissal string) []string {
	text := strings.TrimSpace(dismissal)
	if text == "" || !runOutWordRegex.MatchString(text) {
		return nil
	}

	var inner string
	if match := runOutParenRegex.FindStringSubmatch(text); len(match) == 2 {
		inner = match[1]
	} else if match := runOutBareRegex.FindStringSubmatch(text); len(match) == 2 {
		inner = match[1]
	}
	if strings.TrimSpace(inner) == "" {
		return nil
	}

	parts := runOutSplitRegex.Split(inner, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		name := cleanFielderName(part)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// IsRunOut reports whether the dismissal text describes a run-out.
func IsRunOut(dismissal string) bool {
	return runOutWordRegex.MatchString(dismissal)
}

func cleanFielderName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.NewReplacer("[", "", "]", "", "†", "", "(", "", ")", "").Replace(name)
	name = substitutePrefix.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.TrimSpace(name)
}
