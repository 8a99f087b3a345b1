package merge

import (
	"strings"

	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// SectionOptions controls how a section is placed.
type SectionOptions struct {
	Header  string            // initial content of a file that does not exist yet
	Imports []scaffold.Import // merged before the section is placed
	Anchor  string            // splice after the line starting with Anchor
	Style   *ImportStyle      // defaults to PythonRelative
}

// MergeSection decides whether section must be written to file and returns the
// resulting text:
//
//   - file absent: Header, imports, then section (Created)
//   - sentinel present: unchanged (Locked)
//   - marker present: unchanged (AlreadyPresent)
//   - otherwise: imports, then section (Appended)
//
// The section must contain marker so the next run finds it.
func MergeSection(file scaffold.ArtifactFile, marker, section string, opts SectionOptions) (scaffold.MergeResult, error) {
	if marker == "" || !strings.Contains(section, marker) {
		return errorResult(file), scaffold.NewError(scaffold.CodeMarkerMissing, "merge_section",
			"section for %s does not contain marker %q", file.Path, marker)
	}

	style := PythonRelative
	if opts.Style != nil {
		style = *opts.Style
	}

	text := opts.Header
	reason := scaffold.ReasonCreated

	if file.Exists() {
		text = *file.Content
		switch {
		case IsLocked(text):
			return scaffold.MergeResult{Text: text, Reason: scaffold.ReasonLocked}, nil
		case strings.Contains(text, marker):
			return scaffold.MergeResult{Text: text, Reason: scaffold.ReasonAlreadyPresent}, nil
		}
		reason = scaffold.ReasonAppended
	}

	var err error
	for _, imp := range opts.Imports {
		text, err = style.Merge(text, imp.Module, imp.Name)
		if err != nil {
			return errorResult(file), err
		}
	}

	text, err = place(text, section, opts.Anchor)
	if err != nil {
		return errorResult(file), err
	}

	return scaffold.MergeResult{Text: text, Wrote: true, Reason: reason}, nil
}

func errorResult(file scaffold.ArtifactFile) scaffold.MergeResult {
	res := scaffold.MergeResult{Reason: scaffold.ReasonError}
	if file.Exists() {
		res.Text = *file.Content
	}
	return res
}

// place splices section after the single anchor line, or appends it.
func place(text, section, anchor string) (string, error) {
	if !strings.HasSuffix(section, "\n") {
		section += "\n"
	}

	if anchor != "" {
		lines := strings.Split(text, "\n")
		at := -1
		for i, line := range lines {
			if !strings.HasPrefix(strings.TrimLeft(line, " \t"), anchor) {
				continue
			}
			if at >= 0 {
				return text, scaffold.NewError(scaffold.CodeAmbiguousAnchor, "merge_section",
					"anchor %q found on lines %d and %d", anchor, at+1, i+1)
			}
			at = i
		}
		if at >= 0 {
			body := strings.TrimSuffix(section, "\n")
			out := make([]string, 0, len(lines)+1)
			out = append(out, lines[:at+1]...)
			out = append(out, body)
			out = append(out, lines[at+1:]...)
			return strings.Join(out, "\n"), nil
		}
	}

	if text == "" {
		return section, nil
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + "\n" + section, nil
}
