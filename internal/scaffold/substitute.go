package scaffold

import (
	"regexp"
	"sort"
	"strings"
)

// SubstitutionMap maps placeholders, including their $ delimiters, to values.
type SubstitutionMap map[string]string

// Placeholder wraps a name in the $ delimiters: "ModelClass" -> "$ModelClass$".
func Placeholder(name string) string {
	return "$" + name + "$"
}

// Set binds the placeholder for name.
func (m SubstitutionMap) Set(name, value string) SubstitutionMap {
	m[Placeholder(name)] = value
	return m
}

// Clone returns a shallow copy the caller may extend.
func (m SubstitutionMap) Clone() SubstitutionMap {
	out := make(SubstitutionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var placeholderPattern = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*\$`)

// Render replaces every known placeholder of body in one left-to-right scan.
// Inserted values are never scanned again. Unknown placeholders are copied
// verbatim and consumed whole, so their closing $ never opens the next token.
// Any $ that does not open a well formed placeholder is copied as is.
func Render(body string, values SubstitutionMap) string {
	var out strings.Builder
	out.Grow(len(body))

	i := 0
	for i < len(body) {
		if body[i] != '$' {
			next := strings.IndexByte(body[i:], '$')
			if next < 0 {
				out.WriteString(body[i:])
				break
			}
			out.WriteString(body[i : i+next])
			i += next
			continue
		}

		end := placeholderEnd(body, i)
		if end < 0 {
			out.WriteByte('$')
			i++
			continue
		}

		token := body[i : end+1]
		if value, ok := values[token]; ok {
			out.WriteString(value)
		} else {
			out.WriteString(token)
		}
		i = end + 1
	}

	return out.String()
}

// placeholderEnd returns the index of the closing $ of a placeholder opening at
// start, or -1 if none is well formed there.
func placeholderEnd(body string, start int) int {
	j := start + 1
	if j >= len(body) || !isIdentStart(body[j]) {
		return -1
	}
	for j++; j < len(body); j++ {
		c := body[j]
		if c == '$' {
			return j
		}
		if !isIdentPart(c) {
			return -1
		}
	}
	return -1
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Leftovers returns the distinct placeholders still present in text, sorted.
func Leftovers(text string) []string {
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllString(text, -1) {
		seen[m] = true
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
