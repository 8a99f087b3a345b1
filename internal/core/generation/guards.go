package generation

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// RunContext describes a requested generation run.
type RunContext struct {
	EntityCount int
}

// LockContext describes a file about to be locked.
type LockContext struct {
	Path   string
	Exists bool
}

// PruneContext describes a history prune request.
type PruneContext struct {
	Keep int
}

// CanStartRun evaluates whether a generation run can start.
// Rule: a run needs at least one entity.
func CanStartRun(ctx RunContext) GuardResult {
	if ctx.EntityCount == 0 {
		return GuardResult{Allowed: false, Reason: "no entities given"}
	}
	return GuardResult{Allowed: true}
}

// CanLockFile evaluates whether a file can be locked.
// Rule: only existing files can be locked; locking never creates a file.
func CanLockFile(ctx LockContext) GuardResult {
	if !ctx.Exists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("%s does not exist", ctx.Path)}
	}
	return GuardResult{Allowed: true}
}

// CanPruneHistory evaluates whether history can be pruned.
func CanPruneHistory(ctx PruneContext) GuardResult {
	if ctx.Keep < 0 {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("keep must not be negative, got %d", ctx.Keep)}
	}
	return GuardResult{Allowed: true}
}
