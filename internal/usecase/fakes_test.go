package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
)

var errBoom = errors.New("boom")

// --- fakes for the sync pipeline ---

type fakeRepo struct {
	calls []string

	changed   bool
	changeErr error
	pushErr   error

	checkedOutReset bool
	configured      domain.SigningKey
	identity        domain.Identity
	messages        []string
	pushedTo        []string
	checkedPath     string
}

func (r *fakeRepo) Checkout(_ context.Context, reset bool) (ports.Checkout, error) {
	r.calls = append(r.calls, "checkout")
	r.checkedOutReset = reset
	return ports.Checkout{Root: "/work", Branch: "master", Head: "0123456789abcdef"}, nil
}

func (r *fakeRepo) Configure(identity domain.Identity, key domain.SigningKey) error {
	r.calls = append(r.calls, "configure")
	r.identity = identity
	r.configured = key
	return nil
}

func (r *fakeRepo) Changed(path string) (bool, error) {
	r.calls = append(r.calls, "changed")
	r.checkedPath = path
	return r.changed, r.changeErr
}

func (r *fakeRepo) CommitAll(_ context.Context, message string, _ domain.Identity, _ domain.SigningKey) (string, error) {
	r.calls = append(r.calls, "commit")
	r.messages = append(r.messages, message)
	return "feedfacecafebeef", nil
}

func (r *fakeRepo) Push(_ context.Context, remote string) error {
	r.calls = append(r.calls, "push")
	r.pushedTo = append(r.pushedTo, remote)
	return r.pushErr
}

type fakeRuntime struct {
	installed    bool
	provisions   int
	installs     int
	lastManifest string
	provisionErr error
}

func (f *fakeRuntime) Provision(_ context.Context, root string, spec domain.RuntimeSpec) (domain.Runtime, error) {
	f.provisions++
	if f.provisionErr != nil {
		return domain.Runtime{}, f.provisionErr
	}
	return domain.Runtime{Version: "3.12.1", Python: root + "/.venv/bin/python", Venv: spec.Venv}, nil
}

func (f *fakeRuntime) InstallDeps(_ context.Context, _ string, _ domain.Runtime, manifest string) (bool, error) {
	f.installs++
	f.lastManifest = manifest
	return f.installed, nil
}

type fakeRunner struct {
	cmds []domain.Command
	err  error
}

func (f *fakeRunner) Run(_ context.Context, cmd domain.Command) (domain.CommandResult, error) {
	f.cmds = append(f.cmds, cmd)
	if f.err != nil {
		return domain.CommandResult{ExitCode: 2}, f.err
	}
	return domain.CommandResult{Duration: 1500 * time.Millisecond}, nil
}

type fakeStages struct {
	calls      []domain.StepName
	workspaces []domain.Workspace
	failAt     domain.StepName
	token      string
}

func (f *fakeStages) RunStage(_ context.Context, name domain.StepName, ws domain.Workspace, secrets domain.Secrets) error {
	f.calls = append(f.calls, name)
	f.workspaces = append(f.workspaces, ws)
	f.token = secrets.GitHubToken
	if name == f.failAt {
		return &domain.OpError{Op: "stage", Kind: domain.KindRemote, Err: errBoom}
	}
	return nil
}

type fakeKeys struct {
	calls      int
	passphrase string
	err        error
}

func (f *fakeKeys) Import(_ context.Context, _ string, passphrase string) (domain.SigningKey, error) {
	f.calls++
	f.passphrase = passphrase
	if f.err != nil {
		return domain.SigningKey{}, f.err
	}
	return domain.SigningKey{KeyID: "0123456789ABCDEF", UserID: "Repo Bot"}, nil
}

type fakeStore struct {
	saved bool
	last  domain.SyncReport
	err   error
}

func (s *fakeStore) SaveReport(report domain.SyncReport) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = true
	s.last = report
	return "report-123", nil
}

// --- fakes for the built-in stages ---

type recordingNotifier struct {
	infos, details, warns []string
	progress              int
}

func (n *recordingNotifier) Info(msg string)   { n.infos = append(n.infos, msg) }
func (n *recordingNotifier) Detail(msg string) { n.details = append(n.details, msg) }
func (n *recordingNotifier) Success(string)    {}
func (n *recordingNotifier) Warn(msg string)   { n.warns = append(n.warns, msg) }

func (n *recordingNotifier) Progress(string) ports.ProgressFunc {
	n.progress++
	return func(int64, int64) {}
}

func testClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

type fakeLoader struct {
	ws    domain.Workspace
	err   error
	roots []string
}

func (l *fakeLoader) LoadWorkspace(root string) (domain.Workspace, error) {
	l.roots = append(l.roots, root)
	if l.err != nil {
		return domain.Workspace{}, l.err
	}
	ws := l.ws
	ws.Root = root
	return ws, nil
}
