// Package expr expands ${env.KEY} references in configuration text.
package expr

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// ExpandEnv replaces every ${env.KEY} with the process environment value.
func ExpandEnv(value string) string {
	return Expand(value, os.Getenv)
}

// Expand replaces every ${env.KEY} with lookup(KEY). Keys must consist of
// letters, digits or '_'; anything else is kept literally. An unterminated
// expression keeps the remainder of the input as is.
func Expand(value string, lookup func(string) string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], envPrefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		keyStart := i + idx + len(envPrefix)
		keyLen := strings.IndexByte(value[keyStart:], '}')
		if keyLen < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyLen]
		if !isKey(key) {
			b.WriteString(envPrefix)
			i = keyStart
			continue
		}
		b.WriteString(lookup(key))
		i = keyStart + keyLen + 1
	}
	return b.String()
}

func isKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
