// Package git manages local working copies of grammar repositories.
//
// All operations shell out to the git executable through a shell.Executor,
// so they can be scripted in tests.
package git

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
	"github.com/AndreyAkinshin/tsdl/internal/shell"
)

// noPrompt keeps git from asking for credentials when a repository does not
// exist; the command fails instead of hanging.
const noPrompt = "GIT_TERMINAL_PROMPT=0"

// Client runs git commands.
type Client struct {
	exec shell.Executor
}

// New creates a git client using exec.
func New(exec shell.Executor) *Client {
	return &Client{exec: exec}
}

func (c *Client) run(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	res, err := c.exec.Run(ctx, shell.Command{Name: "git", Args: args, Dir: dir, Env: env})
	return strings.TrimSpace(res.Stdout), err
}

func gitErr(op, dir, repo string, err error) error {
	return &tsdlerrors.GitError{Op: op, Dir: dir, Repo: repo, Cause: err}
}

// FastClone makes dir a working copy of repo checked out at ref, fetching
// only the single requested commit. It is a no-op when dir already has the
// same origin and its HEAD is ref, or is the commit the tag ref resolved to
// on the last fetch. Branches are always fetched again since they move.
func (c *Client) FastClone(ctx context.Context, repo string, ref Ref, dir string) error {
	logger := logging.FromContext(ctx).With("repo", repo, "ref", string(ref), "dir", dir)

	if !c.isValidRepo(ctx, dir) {
		logger.Debug("initializing working copy")
		return c.initFetchAndCheckout(ctx, repo, ref, dir)
	}

	if origin := c.remoteURL(ctx, dir); origin != repo {
		logger.Info("origin changed, recloning", "origin", origin)
		return c.initFetchAndCheckout(ctx, repo, ref, dir)
	}

	head, err := c.run(ctx, dir, nil, "rev-parse", "HEAD")
	if err != nil {
		return gitErr("rev-parse", dir, repo, err)
	}
	if head == string(ref) {
		logger.Debug("already at ref")
		return nil
	}
	if sha, ok := fetchedTag(dir, ref); ok && c.peelsTo(ctx, dir, sha, head) {
		logger.Debug("already at tag", "commit", head)
		return nil
	}

	if _, err := c.run(ctx, dir, nil, "reset", "--hard", "HEAD"); err != nil {
		return gitErr("reset", dir, repo, err)
	}
	return c.fetchAndCheckout(ctx, repo, ref, dir)
}

func (c *Client) initFetchAndCheckout(ctx context.Context, repo string, ref Ref, dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return gitErr("clean", dir, repo, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return gitErr("init", dir, repo, err)
	}
	if _, err := c.run(ctx, dir, nil, "init"); err != nil {
		return gitErr("init", dir, repo, err)
	}
	if _, err := c.run(ctx, dir, nil, "remote", "add", "origin", repo); err != nil {
		return gitErr("remote add", dir, repo, err)
	}
	return c.fetchAndCheckout(ctx, repo, ref, dir)
}

func (c *Client) fetchAndCheckout(ctx context.Context, repo string, ref Ref, dir string) error {
	if _, err := c.run(ctx, dir, []string{noPrompt}, "fetch", "origin", "--depth", "1", string(ref)); err != nil {
		return gitErr("fetch", dir, repo, err)
	}
	if _, err := c.run(ctx, dir, nil, "reset", "--hard", "FETCH_HEAD"); err != nil {
		return gitErr("reset", dir, repo, err)
	}
	return nil
}

// isValidRepo requires both a work tree and a resolvable HEAD; a directory
// left behind by an interrupted init has the former but not the latter.
func (c *Client) isValidRepo(ctx context.Context, dir string) bool {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return false
	}
	if _, err := c.run(ctx, dir, nil, "rev-parse", "--is-inside-work-tree"); err != nil {
		return false
	}
	_, err := c.run(ctx, dir, nil, "rev-parse", "HEAD")
	return err == nil
}

// fetchedTag returns the commit recorded in FETCH_HEAD when the last fetch
// in dir was of tag ref. Lines look like "<sha>\t\ttag 'v1.0.0' of <repo>".
func fetchedTag(dir string, ref Ref) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, ".git", "FETCH_HEAD"))
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(data), "\n")
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) != 3 || fields[1] == "not-for-merge" {
		return "", false
	}
	if !strings.HasPrefix(fields[2], "tag '"+string(ref)+"' of ") {
		return "", false
	}
	return fields[0], true
}

// peelsTo reports whether object is commit, or an annotated tag pointing
// at it.
func (c *Client) peelsTo(ctx context.Context, dir, object, commit string) bool {
	if object == commit {
		return true
	}
	peeled, err := c.run(ctx, dir, nil, "rev-parse", "--verify", "--quiet", object+"^{commit}")
	return err == nil && peeled == commit
}

func (c *Client) remoteURL(ctx context.Context, dir string) string {
	url, err := c.run(ctx, dir, nil, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return url
}

// Clone makes a full clone of repo into dir, or pulls when dir exists.
func (c *Client) Clone(ctx context.Context, repo, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		if _, err := c.run(ctx, dir, []string{noPrompt}, "pull"); err != nil {
			return gitErr("pull", dir, repo, err)
		}
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return gitErr("clone", dir, repo, err)
	}
	if _, err := c.run(ctx, "", []string{noPrompt}, "clone", repo, dir); err != nil {
		return gitErr("clone", "", repo, err)
	}
	return nil
}

// RevParse resolves ref to a commit id inside dir.
func (c *Client) RevParse(ctx context.Context, dir string, ref Ref) (Ref, error) {
	out, err := c.run(ctx, dir, nil, "rev-parse", string(ref))
	if err != nil {
		return "", gitErr("rev-parse", dir, "", err)
	}
	return Ref(out), nil
}

// Describe returns the nearest tag reachable from ref.
func (c *Client) Describe(ctx context.Context, dir string, ref Ref) (string, error) {
	out, err := c.run(ctx, dir, nil, "describe", "--abbrev=0", "--tags", string(ref))
	if err != nil {
		return "", gitErr("describe", dir, "", err)
	}
	if out == "" {
		return "", gitErr("describe", dir, "", fmt.Errorf("no tag reachable from %s", ref))
	}
	return out, nil
}

// LsRemoteTags lists the tags of repo as a map from short tag name to commit.
func (c *Client) LsRemoteTags(ctx context.Context, repo string) (map[string]Ref, error) {
	out, err := c.run(ctx, "", []string{noPrompt}, "ls-remote", "--refs", "--tags", repo)
	if err != nil {
		return nil, gitErr("ls-remote", "", repo, err)
	}
	return parseTags(out), nil
}

// parseTags reads "<sha1>\trefs/tags/<name>" lines.
func parseTags(out string) map[string]Ref {
	tags := make(map[string]Ref)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		name, ok := strings.CutPrefix(fields[1], "refs/tags/")
		if !ok {
			continue
		}
		tags[name] = Ref(fields[0])
	}
	return tags
}
