package strutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	bracketsRe    = regexp.MustCompile(`(\[(.*?)\]|\((.*?)\))`)
	nonAlphaNumRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// AlphaNum drops everything but ASCII letters and digits, spaces included, e.g. SAAB-B.ST becomes SAABBST
func AlphaNum(s string) string {
	return nonAlphaNumRe.ReplaceAllString(s, "")
}

// RemoveContentIntoBrackets removes content inside brackets, including brackets
func RemoveContentIntoBrackets(s string) string {
	return bracketsRe.ReplaceAllString(s, "")
}

// RemoveExtraSpaces removes unnecessary spaces in the string
// For example RemoveExtraSpaces("hello  world  ") return "hello world"
func RemoveExtraSpaces(s string) string {
	idx := 0

	return strings.Trim(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			idx++
			if idx > 1 {
				return -1
			}
			return ' '
		} else if idx > 0 {
			idx = 0
		}

		return r
	}, s), " \t")
}
