// Package merge contains the pure text algorithms that splice generated
// fragments into existing files.
package merge

import (
	"strings"

	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// LockSentinel anywhere in a file makes it read-only to the generator.
const LockSentinel = "#FileLocked"

// IsLocked reports whether text carries the lock sentinel.
func IsLocked(text string) bool {
	return strings.Contains(text, LockSentinel)
}

// ImportStyle describes an aggregated import statement: one line per module
// listing comma separated names.
type ImportStyle struct {
	// Prefix returns the line prefix that identifies the module's import line.
	Prefix func(module string) string
	// Shapes are the line prefixes of any import statement of the language.
	Shapes []string
}

// PythonRelative is "from .<module> import A, B".
var PythonRelative = ImportStyle{
	Prefix: func(module string) string { return "from ." + module + " import " },
	Shapes: []string{"from ", "import "},
}

// MergeImport adds name to the import line of module using PythonRelative.
func MergeImport(text, module, name string) (string, error) {
	return PythonRelative.Merge(text, module, name)
}

// Merge adds name to the import statement of module. A name already listed,
// or a locked text, leaves text unchanged. More than one statement for module
// fails with AmbiguousImportBlock. With no statement for module, a new line is
// inserted after the last import statement, or at the top of the file.
//
// Statements may span lines with parentheses or backslash continuations; the
// name list is then read across all of their lines.
func (s ImportStyle) Merge(text, module, name string) (string, error) {
	if IsLocked(text) {
		return text, nil
	}

	prefix := s.Prefix(module)
	lines := strings.Split(text, "\n")
	stmts := s.statements(lines)

	found := -1
	for i, st := range stmts {
		if !strings.HasPrefix(lines[st.start], prefix) {
			continue
		}
		if found >= 0 {
			return text, scaffold.NewError(scaffold.CodeAmbiguousImportBlock, "merge_import",
				"module %q is imported on lines %d and %d", module, stmts[found].start+1, st.start+1)
		}
		found = i
	}

	if found >= 0 {
		st := stmts[found]
		if st.hasName(lines, prefix, name) {
			return text, nil
		}
		return strings.Join(st.add(lines, prefix, name), "\n"), nil
	}

	at := 0
	if len(stmts) > 0 {
		at = stmts[len(stmts)-1].end + 1
	}
	lines = append(lines[:at], append([]string{prefix + name}, lines[at:]...)...)
	return strings.Join(lines, "\n"), nil
}

func (s ImportStyle) isImport(line string) bool {
	for _, shape := range s.Shapes {
		if strings.HasPrefix(line, shape) {
			return true
		}
	}
	return false
}

// statement is an import statement covering lines start..end inclusive.
type statement struct {
	start, end int
	paren      bool
}

func (s ImportStyle) statements(lines []string) []statement {
	var out []statement
	for i := 0; i < len(lines); i++ {
		if !s.isImport(lines[i]) {
			continue
		}
		st := statementAt(lines, i)
		out = append(out, st)
		i = st.end
	}
	return out
}

func statementAt(lines []string, i int) statement {
	code, _, _ := splitLine(lines[i])
	trimmed := strings.TrimRight(code, " \t")

	if open := strings.Index(code, "("); open >= 0 {
		st := statement{start: i, end: i, paren: true}
		if strings.Contains(code[open:], ")") {
			return st
		}
		for j := i + 1; j < len(lines); j++ {
			st.end = j
			if c, _, _ := splitLine(lines[j]); strings.Contains(c, ")") {
				break
			}
		}
		return st
	}

	st := statement{start: i, end: i}
	for strings.HasSuffix(trimmed, "\\") && st.end+1 < len(lines) {
		st.end++
		code, _, _ = splitLine(lines[st.end])
		trimmed = strings.TrimRight(code, " \t")
	}
	return st
}

func (st statement) hasName(lines []string, prefix, name string) bool {
	var b strings.Builder
	for i := st.start; i <= st.end; i++ {
		code, _, _ := splitLine(lines[i])
		if i == st.start {
			code = strings.TrimPrefix(code, prefix)
		}
		b.WriteString(code)
		b.WriteString(",")
	}
	list := strings.NewReplacer("(", ",", ")", ",", "\\", ",").Replace(b.String())
	for _, existing := range strings.Split(list, ",") {
		if strings.TrimSpace(existing) == name {
			return true
		}
	}
	return false
}

// add returns lines with name appended to the statement's name list.
func (st statement) add(lines []string, prefix, name string) []string {
	out := append([]string(nil), lines...)
	if !st.paren {
		last := out[st.end]
		if st.end == st.start {
			out[st.end], _ = appendName(last, prefix, name)
		} else {
			out[st.end], _ = appendName(last, "", name)
		}
		return out
	}

	code, comment, eol := splitLine(out[st.end])
	closeAt := strings.LastIndex(code, ")")
	if closeAt < 0 {
		// Unterminated block: append as its last entry.
		return insertLine(out, st.end+1, "    "+name+","+eol)
	}

	before := strings.TrimRight(code[:closeAt], " \t")
	if st.end > st.start && strings.TrimSpace(before) == "" {
		indent := "    "
		if prev := st.end - 1; prev > st.start {
			indent = leadingSpace(out[prev])
			pc, pcomment, peol := splitLine(out[prev])
			pc = strings.TrimRight(pc, " \t")
			if pc != "" && !strings.HasSuffix(pc, ",") {
				out[prev] = pc + "," + spaced(pcomment) + peol
			}
		}
		return insertLine(out, st.end, indent+name+","+eol)
	}

	switch {
	case strings.HasSuffix(before, "("):
		before += name
	case strings.HasSuffix(before, ","):
		before += " " + name
	default:
		before += ", " + name
	}
	out[st.end] = before + code[closeAt:] + comment + eol
	return out
}

// splitLine separates a line into code, trailing comment and carriage return.
func splitLine(line string) (code, comment, eol string) {
	if strings.HasSuffix(line, "\r") {
		eol = "\r"
		line = strings.TrimSuffix(line, "\r")
	}
	if idx := strings.Index(line, "#"); idx >= 0 {
		return line[:idx], line[idx:], eol
	}
	return line, "", eol
}

func spaced(comment string) string {
	if comment == "" {
		return ""
	}
	return "  " + comment
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func insertLine(lines []string, at int, line string) []string {
	return append(lines[:at], append([]string{line}, lines[at:]...)...)
}

// appendName returns line with ", name" added to its name list, keeping any
// trailing comment and carriage return.
func appendName(line, prefix, name string) (string, bool) {
	code, comment, eol := splitLine(strings.TrimPrefix(line, prefix))

	for _, existing := range strings.Split(code, ",") {
		if strings.TrimSpace(existing) == name {
			return line, false
		}
	}

	names := strings.TrimRight(code, " \t")
	if strings.TrimSpace(names) == "" {
		names = name
	} else {
		names += ", " + name
	}
	return prefix + names + spaced(comment) + eol, true
}
