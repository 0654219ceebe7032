package normalize

import (
	"regexp"
	"strings"
)

// storeAliases is the curated mapping from store codes and legacy spellings
// to canonical display names. It is maintained by hand, not inferred; an
// unknown name passes through with only whitespace/punctuation cleanup.
var storeAliases = map[string]string{
	"Luckin Coffee US00001":        "Luckin Coffee - Broadway",
	"Luckin Coffee US00002":        "Luckin Coffee - Times Square",
	"Luckin Coffee US00003":        "Luckin Coffee - Union Square",
	"Luckin Coffee (Broadway)":     "Luckin Coffee - Broadway",
	"Luckin Coffee (Times Square)": "Luckin Coffee - Times Square",
	"Luckin Coffee (Union Square)": "Luckin Coffee - Union Square",
}

var reSpaces = regexp.MustCompile(`\s+`)

// CanonicalStoreName cleans a raw store string and applies the curated
// alias table.
func CanonicalStoreName(raw string) string {
	name := reSpaces.ReplaceAllString(strings.TrimSpace(raw), " ")
	if name == "" {
		return ""
	}
	if canonical, ok := storeAliases[name]; ok {
		return canonical
	}
	return name
}
