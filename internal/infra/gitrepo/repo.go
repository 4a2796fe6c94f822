// Package gitrepo drives the workspace git repository in-process.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/infra/pgpkey"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// tokenUser is the user name GitHub expects alongside an installation or personal token.
const tokenUser = "x-access-token"

type Options struct {
	// Root is the workspace directory; the repository may live in a parent.
	Root     string
	CloneURL string
	Token    string
	Logger   *slog.Logger
	Now      func() time.Time
}

type Repo struct {
	opts Options
	repo *git.Repository
	wt   *git.Worktree
	top  string
}

func New(opts Options) *Repo {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Repo{opts: opts}
}

var _ ports.Repository = (*Repo)(nil)

// Checkout opens the repository containing Root, cloning CloneURL into Root when
// there is none. With reset the worktree is hard-reset to HEAD.
func (r *Repo) Checkout(ctx context.Context, reset bool) (ports.Checkout, error) {
	root, err := filepath.Abs(r.opts.Root)
	if err != nil {
		return ports.Checkout{}, vcsErr("gitrepo.checkout", domain.KindExecution, err)
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if r.opts.CloneURL == "" {
			return ports.Checkout{}, &domain.OpError{
				Op:   "gitrepo.checkout",
				Kind: domain.KindNotFound,
				Path: root,
				Err:  fmt.Errorf("no git repository and no clone url configured: %w", domain.ErrNotFound),
			}
		}
		r.opts.Logger.Info("git.clone", "url", r.opts.CloneURL, "path", root)
		repo, err = git.PlainCloneContext(ctx, root, false, &git.CloneOptions{
			URL:  r.opts.CloneURL,
			Auth: r.auth(r.opts.CloneURL),
		})
		if err != nil {
			return ports.Checkout{}, vcsErr("gitrepo.clone", domain.KindRemote, err)
		}
	} else if err != nil {
		return ports.Checkout{}, vcsErr("gitrepo.open", domain.KindExecution, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return ports.Checkout{}, vcsErr("gitrepo.worktree", domain.KindExecution, err)
	}
	r.repo = repo
	r.wt = wt
	r.top = wt.Filesystem.Root()

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return r.unborn(root)
	}
	if err != nil {
		return ports.Checkout{}, vcsErr("gitrepo.head", domain.KindExecution, err)
	}

	if reset {
		if err := wt.Reset(&git.ResetOptions{Commit: head.Hash(), Mode: git.HardReset}); err != nil {
			return ports.Checkout{}, vcsErr("gitrepo.reset", domain.KindExecution, err)
		}
	}

	co := ports.Checkout{Root: r.top, Head: head.Hash().String()}
	if head.Name().IsBranch() {
		co.Branch = head.Name().Short()
	}
	return co, nil
}

// unborn describes a repository without commits: no head hash, branch taken
// from the symbolic HEAD.
func (r *Repo) unborn(root string) (ports.Checkout, error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return ports.Checkout{}, vcsErr("gitrepo.head", domain.KindExecution, err)
	}
	co := ports.Checkout{Root: r.top}
	if ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
		co.Branch = ref.Target().Short()
	}
	r.opts.Logger.Info("git.unborn", "path", root, "branch", co.Branch)
	return co, nil
}

// Configure writes identity and mandatory commit signing into the local config.
func (r *Repo) Configure(identity domain.Identity, key domain.SigningKey) error {
	if err := r.ready(); err != nil {
		return err
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return vcsErr("gitrepo.configure", domain.KindExecution, err)
	}

	cfg.User.Name = identity.Name
	cfg.User.Email = identity.Email
	cfg.Raw.Section("user").SetOption("signingkey", key.KeyID)
	cfg.Raw.Section("commit").SetOption("gpgsign", "true")

	if err := r.repo.SetConfig(cfg); err != nil {
		return vcsErr("gitrepo.configure", domain.KindExecution, err)
	}
	return nil
}

// Changed reports whether path (relative to the workspace root) differs from HEAD.
// A path missing from HEAD counts as changed when it exists on disk.
func (r *Repo) Changed(path string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}

	rel, err := r.repoPath(path)
	if err != nil {
		return false, vcsErr("gitrepo.diff", domain.KindInvalidConfig, err)
	}

	data, err := os.ReadFile(filepath.Join(r.top, filepath.FromSlash(rel)))
	onDisk := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, vcsErr("gitrepo.diff", domain.KindExecution, err)
	}

	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return onDisk, nil
	}
	if err != nil {
		return false, vcsErr("gitrepo.diff", domain.KindExecution, err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return false, vcsErr("gitrepo.diff", domain.KindExecution, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return false, vcsErr("gitrepo.diff", domain.KindExecution, err)
	}

	f, err := tree.File(rel)
	if errors.Is(err, object.ErrFileNotFound) {
		return onDisk, nil
	}
	if err != nil {
		return false, vcsErr("gitrepo.diff", domain.KindExecution, err)
	}
	if !onDisk {
		return true, nil
	}

	return plumbing.ComputeHash(plumbing.BlobObject, data) != f.Hash, nil
}

// CommitAll stages every change (git add -A) and creates one commit signed with key.
func (r *Repo) CommitAll(ctx context.Context, message string, identity domain.Identity, key domain.SigningKey) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}

	entity, err := pgpkey.Parse(key.Armored, key.Passphrase)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", vcsErr("gitrepo.commit", domain.KindExecution, err)
	}

	patterns, err := gitignore.ReadPatterns(r.wt.Filesystem, nil)
	if err != nil {
		return "", vcsErr("gitrepo.add", domain.KindExecution, err)
	}
	r.wt.Excludes = append(r.wt.Excludes, patterns...)

	if err := r.wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", vcsErr("gitrepo.add", domain.KindExecution, err)
	}

	sig := &object.Signature{Name: identity.Name, Email: identity.Email, When: r.opts.Now()}
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
		SignKey:   entity,
	})
	if err != nil {
		return "", vcsErr("gitrepo.commit", domain.KindExecution, err)
	}

	r.opts.Logger.Info("git.commit", "hash", hash.String(), "key", key.KeyID)
	return hash.String(), nil
}

// Push sends the current branch to remote. An up-to-date remote is not an error.
func (r *Repo) Push(ctx context.Context, remote string) error {
	if err := r.ready(); err != nil {
		return err
	}

	head, err := r.repo.Head()
	if err != nil {
		return vcsErr("gitrepo.push", domain.KindExecution, err)
	}
	if !head.Name().IsBranch() {
		return vcsErr("gitrepo.push", domain.KindExecution, errors.New("HEAD is detached"))
	}

	rm, err := r.repo.Remote(remote)
	if err != nil {
		return vcsErr("gitrepo.push", domain.KindInvalidConfig, fmt.Errorf("remote %q: %w", remote, err))
	}
	var url string
	if urls := rm.Config().URLs; len(urls) > 0 {
		url = urls[0]
	}

	spec := config.RefSpec(head.Name().String() + ":" + head.Name().String())
	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{spec},
		Auth:       r.auth(url),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return vcsErr("gitrepo.push", domain.KindRemote, err)
	}

	r.opts.Logger.Info("git.push", "remote", remote, "ref", head.Name().String())
	return nil
}

func (r *Repo) auth(url string) transport.AuthMethod {
	if r.opts.Token == "" {
		return nil
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil
	}
	return &http.BasicAuth{Username: tokenUser, Password: r.opts.Token}
}

func (r *Repo) repoPath(path string) (string, error) {
	root, err := filepath.Abs(r.opts.Root)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.top, filepath.Join(root, path))
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q is outside the repository: %w", path, domain.ErrInvalidConfig)
	}
	return rel, nil
}

func (r *Repo) ready() error {
	if r.repo == nil || r.wt == nil {
		return vcsErr("gitrepo", domain.KindExecution, errors.New("repository is not checked out"))
	}
	return nil
}

func vcsErr(op string, kind domain.ErrorKind, err error) error {
	return &domain.OpError{Op: op, Kind: kind, Err: err}
}
