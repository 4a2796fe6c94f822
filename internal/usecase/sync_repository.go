package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

// SyncOptions tune a single sync run.
type SyncOptions struct {
	// DryRun stops after the change check: no key import, git config, commit or push.
	DryRun bool
	// Reset hard-resets the working tree to HEAD before building.
	Reset bool
}

// SyncRepository runs the publishing pipeline: checkout, runtime, build stages,
// signing setup and a conditional signed commit of the tracked index.
// The first failing step aborts the run; later steps are reported as not-run.
type SyncRepository struct {
	repo     ports.Repository
	runtime  ports.RuntimeProvisioner
	runner   ports.CommandRunner
	stages   StageRunner
	keys     ports.KeyImporter
	store    ports.ReportStore
	notifier ports.Notifier
	log      *slog.Logger
	now      func() time.Time
	resolver *domain.VarResolver
	loader   ports.WorkspaceLoader
}

// NewSyncRepository wires the pipeline. store may be nil to skip reports.
func NewSyncRepository(
	repo ports.Repository,
	rp ports.RuntimeProvisioner,
	cr ports.CommandRunner,
	stages StageRunner,
	keys ports.KeyImporter,
	store ports.ReportStore,
	opts ...StageOption,
) *SyncRepository {
	o := newStageOptions(opts)
	return &SyncRepository{
		repo:     repo,
		runtime:  rp,
		runner:   cr,
		stages:   stages,
		keys:     keys,
		store:    store,
		notifier: o.notifier,
		log:      o.log,
		now:      o.now,
		resolver: domain.NewVarResolver(domain.WithNow(o.now)),
		loader:   o.loader,
	}
}

// syncRun carries state between the steps of one run.
type syncRun struct {
	ws      domain.Workspace
	secrets domain.Secrets
	opts    SyncOptions
	report  *domain.SyncReport

	runtime    domain.Runtime
	hasRuntime bool
	key        domain.SigningKey
}

type stepOutcome struct {
	skipped bool
	detail  string
}

type syncStep struct {
	name domain.StepName
	run  func(ctx context.Context, st *syncRun) (stepOutcome, error)
}

func (uc *SyncRepository) steps() []syncStep {
	return []syncStep{
		{domain.StepCheckout, uc.checkout},
		{domain.StepSetupRuntime, uc.setupRuntime},
		{domain.StepInstallDeps, uc.installDeps},
		{domain.StepCollectDists, uc.buildStage(domain.StepCollectDists)},
		{domain.StepCollectIcons, uc.buildStage(domain.StepCollectIcons)},
		{domain.StepBuildPackages, uc.buildStage(domain.StepBuildPackages)},
		{domain.StepBuildRelease, uc.buildStage(domain.StepBuildRelease)},
		{domain.StepImportKey, uc.importKey},
		{domain.StepConfigureGit, uc.configureGit},
		{domain.StepPublish, uc.publish},
	}
}

// Execute runs every step in order. With a workspace loader, ws only needs a
// root and settings: the index is read after checkout. It returns the report, the saved report id
// (empty when no store is configured or saving failed) and the step failure.
func (uc *SyncRepository) Execute(ctx context.Context, ws domain.Workspace, secrets domain.Secrets, opts SyncOptions) (domain.SyncReport, string, error) {
	steps := uc.steps()
	report := domain.SyncReport{
		Root:      ws.Root,
		Outcome:   domain.OutcomeFailed,
		StartedAt: uc.now(),
		Steps:     make([]domain.StepResult, 0, len(steps)),
	}
	st := &syncRun{ws: ws, secrets: secrets, opts: opts, report: &report}

	var failure error
	for _, s := range steps {
		if failure != nil {
			report.Steps = append(report.Steps, domain.StepResult{Name: s.name, Status: domain.StepNotRun})
			continue
		}

		res, err := uc.runStep(ctx, s, st)
		report.Steps = append(report.Steps, res)
		if err != nil {
			failure = stepError(s.name, err)
		}
	}

	if failure != nil {
		report.Outcome = domain.OutcomeFailed
	}
	report.EndedAt = uc.now()

	uc.log.Info("sync.done",
		"outcome", report.Outcome,
		"commit", report.Commit,
		"duration_ms", report.EndedAt.Sub(report.StartedAt).Milliseconds(),
	)

	return report, uc.save(report), failure
}

func (uc *SyncRepository) runStep(ctx context.Context, s syncStep, st *syncRun) (domain.StepResult, error) {
	res := domain.StepResult{Name: s.name, StartedAt: uc.now()}
	uc.notifier.Info(string(s.name))

	var out stepOutcome
	err := ctx.Err()
	if err == nil {
		out, err = s.run(ctx, st)
	}
	res.EndedAt = uc.now()
	res.Detail = out.detail

	switch {
	case err != nil:
		res.Status = domain.StepFailed
		res.Error = err.Error()
		uc.log.Error("sync.step", "step", s.name, "status", res.Status, "err", err)
		return res, err
	case out.skipped:
		res.Status = domain.StepSkipped
		uc.notifier.Detail("skipped: " + out.detail)
	default:
		res.Status = domain.StepSucceeded
		if out.detail != "" {
			uc.notifier.Detail(out.detail)
		}
	}

	uc.log.Info("sync.step", "step", s.name, "status", res.Status, "duration_ms", res.Duration().Milliseconds())
	return res, nil
}

func (uc *SyncRepository) save(report domain.SyncReport) string {
	if uc.store == nil {
		return ""
	}
	id, err := uc.store.SaveReport(report)
	if err != nil {
		uc.log.Warn("sync.report", "err", err)
		uc.notifier.Warn("Could not save the sync report (see logs)")
		return ""
	}
	return id
}

func (uc *SyncRepository) checkout(ctx context.Context, st *syncRun) (stepOutcome, error) {
	co, err := uc.repo.Checkout(ctx, st.opts.Reset)
	if err != nil {
		return stepOutcome{}, err
	}
	st.report.Branch = co.Branch
	st.report.Head = co.Head

	if uc.loader != nil {
		ws, err := uc.loader.LoadWorkspace(st.ws.Root)
		if err != nil {
			return stepOutcome{}, err
		}
		st.ws = ws
	}

	detail := fmt.Sprintf("%s at %s", co.Branch, shortHash(co.Head))
	if st.opts.Reset {
		detail += " (reset)"
	}
	return stepOutcome{detail: detail}, nil
}

func (uc *SyncRepository) setupRuntime(ctx context.Context, st *syncRun) (stepOutcome, error) {
	spec := st.ws.Config.Sync.Runtime
	if strings.TrimSpace(spec.Python) == "" {
		return stepOutcome{skipped: true, detail: "no python version pinned"}, nil
	}

	rt, err := uc.runtime.Provision(ctx, st.ws.Root, spec)
	if err != nil {
		return stepOutcome{}, err
	}
	st.runtime = rt
	st.hasRuntime = true
	return stepOutcome{detail: fmt.Sprintf("python %s in %s", rt.Version, rt.Venv)}, nil
}

func (uc *SyncRepository) installDeps(ctx context.Context, st *syncRun) (stepOutcome, error) {
	if !st.hasRuntime {
		return stepOutcome{skipped: true, detail: "no python runtime"}, nil
	}

	manifest := st.ws.Config.Sync.Runtime.Manifest
	installed, err := uc.runtime.InstallDeps(ctx, st.ws.Root, st.runtime, manifest)
	if err != nil {
		return stepOutcome{}, err
	}
	if !installed {
		return stepOutcome{skipped: true, detail: "no " + manifest}, nil
	}
	return stepOutcome{detail: "installed " + manifest}, nil
}

func (uc *SyncRepository) buildStage(name domain.StepName) func(context.Context, *syncRun) (stepOutcome, error) {
	return func(ctx context.Context, st *syncRun) (stepOutcome, error) {
		if argv := st.ws.Config.Sync.Stages[name]; len(argv) > 0 {
			return uc.external(ctx, st, argv)
		}
		if err := uc.stages.RunStage(ctx, name, st.ws, st.secrets); err != nil {
			return stepOutcome{}, err
		}
		return stepOutcome{detail: "built-in"}, nil
	}
}

// external runs a stage override. {{python}}, {{root}} and {{$timestamp}} are expanded.
func (uc *SyncRepository) external(ctx context.Context, st *syncRun, argv []string) (stepOutcome, error) {
	python := st.ws.Config.Sync.Runtime.Interpreter
	if st.hasRuntime {
		python = st.runtime.Python
	}

	rt := uc.resolver.NewRuntime(domain.Vars{"python": python, "root": st.ws.Root})
	args, err := rt.ResolveArgs(argv)
	if err != nil {
		return stepOutcome{}, err
	}

	env := map[string]string{}
	if st.secrets.GitHubToken != "" {
		env["GITHUB_TOKEN"] = st.secrets.GitHubToken
	}

	res, err := uc.runner.Run(ctx, domain.Command{
		Name:   args[0],
		Args:   args[1:],
		Dir:    st.ws.Root,
		Env:    env,
		Stream: true,
	})
	if err != nil {
		return stepOutcome{}, err
	}
	return stepOutcome{detail: fmt.Sprintf("%s finished in %s", args[0], res.Duration.Round(time.Millisecond))}, nil
}

func (uc *SyncRepository) importKey(ctx context.Context, st *syncRun) (stepOutcome, error) {
	if st.opts.DryRun {
		return stepOutcome{skipped: true, detail: "dry run"}, nil
	}
	if strings.TrimSpace(st.secrets.GPGPrivateKey) == "" {
		return stepOutcome{}, &domain.OpError{
			Op:   "sync.import_key",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("GPG_PRIVATE_KEY is not set: %w", domain.ErrInvalidConfig),
		}
	}

	key, err := uc.keys.Import(ctx, st.secrets.GPGPrivateKey, st.secrets.GPGPassphrase)
	if err != nil {
		return stepOutcome{}, err
	}
	st.key = key

	detail := "key " + key.KeyID
	if key.UserID != "" {
		detail += " (" + key.UserID + ")"
	}
	return stepOutcome{detail: detail}, nil
}

func (uc *SyncRepository) configureGit(_ context.Context, st *syncRun) (stepOutcome, error) {
	if st.opts.DryRun {
		return stepOutcome{skipped: true, detail: "dry run"}, nil
	}
	if err := uc.repo.Configure(st.ws.Config.Sync.Identity, st.key); err != nil {
		return stepOutcome{}, err
	}
	return stepOutcome{detail: "commit.gpgsign with " + st.key.KeyID}, nil
}

func (uc *SyncRepository) publish(ctx context.Context, st *syncRun) (stepOutcome, error) {
	cfg := st.ws.Config.Sync

	changed, err := uc.repo.Changed(cfg.TrackedPath)
	if err != nil {
		return stepOutcome{}, err
	}
	if !changed {
		st.report.Outcome = domain.OutcomeUnchanged
		return stepOutcome{detail: "no changes in " + cfg.TrackedPath}, nil
	}
	if st.opts.DryRun {
		st.report.Outcome = domain.OutcomeDryRun
		return stepOutcome{detail: cfg.TrackedPath + " changed (dry run)"}, nil
	}

	hash, err := uc.repo.CommitAll(ctx, cfg.CommitMessage, cfg.Identity, st.key)
	if err != nil {
		return stepOutcome{}, err
	}
	st.report.Commit = hash

	if err := uc.repo.Push(ctx, cfg.Remote); err != nil {
		return stepOutcome{}, err
	}
	st.report.Outcome = domain.OutcomeCommitted
	return stepOutcome{detail: fmt.Sprintf("committed %s and pushed to %s", shortHash(hash), cfg.Remote)}, nil
}

// stepError marks err as the failure of step name, keeping its kind.
func stepError(name domain.StepName, err error) error {
	kind := domain.KindExecution
	var oe *domain.OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
	}
	return &domain.OpError{
		Op:   "sync." + string(name),
		Kind: kind,
		Err:  fmt.Errorf("%w: %w", domain.ErrStepFailed, err),
	}
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	if h == "" {
		return "(no commits)"
	}
	return h
}
