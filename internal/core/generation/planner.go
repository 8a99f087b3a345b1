// Package generation plans the effects of generating one artifact. Everything
// here is pure: file contents are probed by the caller beforehand.
package generation

import (
	"github.com/Senhordim/boilerplate/internal/core/effects"
	"github.com/Senhordim/boilerplate/internal/core/merge"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// State is the terminal state of an artifact.
type State string

const (
	StateWritten State = "written"
	StateSkipped State = "skipped"
	StateFailed  State = "failed"
)

// ArtifactPlanInput contains the rendered artifact and the probed target file.
type ArtifactPlanInput struct {
	Entity   string
	Rendered *scaffold.RenderedArtifact
	File     scaffold.ArtifactFile
	FileMode uint32
}

// ArtifactPlan is the decision for one artifact and the effects carrying it out.
type ArtifactPlan struct {
	State   State
	Result  scaffold.MergeResult
	Err     error
	FileOps []effects.FileEffect
	LogOps  []effects.LogEffect
}

// Effects returns all effects as a flat slice for execution.
func (p ArtifactPlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.FileOps)+len(p.LogOps))
	for _, e := range p.FileOps {
		result = append(result, e)
	}
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	return result
}

// GenerateArtifactPlan runs the section merge for a probed file and plans the
// write. Locked and already present files are skipped; merge errors fail only
// this artifact.
func GenerateArtifactPlan(input ArtifactPlanInput) ArtifactPlan {
	r := input.Rendered
	fields := map[string]any{
		"entity": input.Entity,
		"kind":   string(r.Kind),
		"path":   r.Path,
	}

	res, err := merge.MergeSection(input.File, r.Marker, r.SectionText, merge.SectionOptions{
		Header:  r.HeaderText,
		Imports: r.Imports,
		Anchor:  r.Anchor,
	})
	if err != nil {
		fields["error"] = err.Error()
		return ArtifactPlan{
			State:  StateFailed,
			Result: res,
			Err:    err,
			LogOps: []effects.LogEffect{{Level: "warn", Message: "artifact failed", Fields: fields}},
		}
	}

	fields["reason"] = string(res.Reason)
	if !res.Wrote {
		return ArtifactPlan{
			State:  StateSkipped,
			Result: res,
			LogOps: []effects.LogEffect{{Level: "info", Message: "artifact skipped", Fields: fields}},
		}
	}

	mode := input.FileMode
	if mode == 0 {
		mode = 0644
	}
	return ArtifactPlan{
		State:  StateWritten,
		Result: res,
		FileOps: []effects.FileEffect{{
			Operation: "write",
			Path:      r.Path,
			Content:   []byte(res.Text),
			Mode:      mode,
		}},
		LogOps: []effects.LogEffect{{Level: "debug", Message: "artifact written", Fields: fields}},
	}
}
