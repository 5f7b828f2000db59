// Package rules parses cClass→CFOP rule text and applies it to raw invoice
// XML. The rewrite works on the document text, never a parsed tree, so
// every untouched byte of the file (attribute order, whitespace, comments)
// survives the edit.
package rules

import (
	"regexp"
	"strings"
	"sync"
)

// Set maps a cClass code to the CFOP to inject after it.
type Set map[string]string

// separators accepted in rule and mapping lines, in precedence order.
var separators = []string{";", ",", ":"}

// SplitLine splits one "left<sep>right" line on the first separator present
// in it. The bool is false when no separator occurs.
func SplitLine(line string) (string, string, bool) {
	for _, sep := range separators {
		if left, right, ok := strings.Cut(line, sep); ok {
			return strings.TrimSpace(left), strings.TrimSpace(right), true
		}
	}
	return "", "", false
}

// Parse builds a Set from newline-delimited rule text. Blank lines and
// "#" comments are skipped; a duplicated code keeps its last value.
func Parse(text string) Set {
	set := Set{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, cfop, ok := SplitLine(line)
		if !ok || code == "" || cfop == "" {
			continue
		}
		set[code] = cfop
	}
	return set
}

var (
	removeDiscountRe = regexp.MustCompile(`(?s)<vDesc>.*?</vDesc>`)
	removeOtherRe    = regexp.MustCompile(`(?s)<vOutro>.*?</vOutro>`)

	insertMu sync.Mutex
	insertRe = map[string]*regexp.Regexp{}
)

// cfopInsertPattern matches <cClass>code</cClass> not already followed by a
// <CFOP> element. Codes are escaped so pattern metacharacters stay literal.
func cfopInsertPattern(code string) *regexp.Regexp {
	insertMu.Lock()
	defer insertMu.Unlock()
	if re, ok := insertRe[code]; ok {
		return re
	}
	re := regexp.MustCompile(`<cClass>` + regexp.QuoteMeta(code) + `</cClass>(<CFOP>)?`)
	insertRe[code] = re
	return re
}

// Apply rewrites one document's text: optional removal of every well-formed
// <vDesc> and <vOutro> span, then CFOP insertion after each matching
// <cClass> element that does not already carry one.
func Apply(doc string, set Set, removeDiscount, removeOther bool) string {
	if removeDiscount {
		doc = removeDiscountRe.ReplaceAllString(doc, "")
	}
	if removeOther {
		doc = removeOtherRe.ReplaceAllString(doc, "")
	}

	for code, cfop := range set {
		cfop = strings.TrimSpace(cfop)
		if cfop == "" {
			continue
		}
		re := cfopInsertPattern(code)
		doc = re.ReplaceAllStringFunc(doc, func(m string) string {
			// An existing <CFOP> right after the cClass stays untouched.
			if strings.HasSuffix(m, "<CFOP>") {
				return m
			}
			return m + "<CFOP>" + cfop + "</CFOP>"
		})
	}
	return doc
}
