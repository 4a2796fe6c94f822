package domain

import "time"

// StepName identifies a step of the sync pipeline.
type StepName string

const (
	StepCheckout      StepName = "checkout"
	StepSetupRuntime  StepName = "setup-runtime"
	StepInstallDeps   StepName = "install-deps"
	StepCollectDists  StepName = "collect-dists"
	StepCollectIcons  StepName = "collect-icons"
	StepBuildPackages StepName = "build-packages"
	StepBuildRelease  StepName = "build-release"
	StepImportKey     StepName = "import-key"
	StepConfigureGit  StepName = "configure-git"
	StepPublish       StepName = "publish"
)

// SyncSteps returns the pipeline steps in execution order.
func SyncSteps() []StepName {
	return []StepName{
		StepCheckout,
		StepSetupRuntime,
		StepInstallDeps,
		StepCollectDists,
		StepCollectIcons,
		StepBuildPackages,
		StepBuildRelease,
		StepImportKey,
		StepConfigureGit,
		StepPublish,
	}
}

// BuildStages returns the four build stages in their fixed order.
func BuildStages() []StepName {
	return []StepName{StepCollectDists, StepCollectIcons, StepBuildPackages, StepBuildRelease}
}

// IsBuildStage reports whether a step may be overridden by an external command.
func IsBuildStage(name StepName) bool {
	for _, s := range BuildStages() {
		if s == name {
			return true
		}
	}
	return false
}

type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
	StepNotRun    StepStatus = "not-run"
)

// StepResult records the execution of one step.
type StepResult struct {
	Name      StepName   `json:"name"`
	Status    StepStatus `json:"status"`
	Detail    string     `json:"detail,omitempty"`
	Error     string     `json:"error,omitempty"`
	StartedAt time.Time  `json:"started_at,omitempty"`
	EndedAt   time.Time  `json:"ended_at,omitempty"`
}

// Duration is zero for steps that never started.
func (s StepResult) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Outcome summarizes how a sync run ended.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeDryRun    Outcome = "dry-run"
	OutcomeFailed    Outcome = "failed"
)

// SyncReport is the persisted record of a sync run.
type SyncReport struct {
	Root      string       `json:"root"`
	Branch    string       `json:"branch,omitempty"`
	Head      string       `json:"head,omitempty"`
	Commit    string       `json:"commit,omitempty"`
	Outcome   Outcome      `json:"outcome"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   time.Time    `json:"ended_at"`
	Steps     []StepResult `json:"steps"`
}

// Step looks up the result of a named step.
func (r SyncReport) Step(name StepName) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// FailedStep returns the step that aborted the run, if any.
func (r SyncReport) FailedStep() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return s, true
		}
	}
	return StepResult{}, false
}
