package merge

import (
	"path/filepath"
	"strings"
)

// LockLine returns the sentinel as a comment in the syntax of path's file type.
func LockLine(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dart", ".js", ".ts", ".go", ".java", ".kt", ".swift":
		return "// " + LockSentinel
	case ".html", ".htm", ".xml", ".md":
		return "<!-- " + LockSentinel + " -->"
	case ".css":
		return "/* " + LockSentinel + " */"
	default:
		return LockSentinel
	}
}

// Lock prepends the sentinel line to text. It reports false and returns text
// unchanged when text is already locked. A leading "#!" line stays first.
func Lock(path, text string) (string, bool) {
	if IsLocked(text) {
		return text, false
	}

	line := LockLine(path) + "\n"
	if strings.HasPrefix(text, "#!") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			return text[:nl+1] + line + text[nl+1:], true
		}
		return text + "\n" + line, true
	}
	return line + text, true
}
