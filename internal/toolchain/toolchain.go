// Package toolchain provisions the tree-sitter CLI used to generate and build
// parsers.
//
// A version is first matched against the remote tags of the tree-sitter
// repository. Versions that match no tag (branches, commits) are resolved to
// the nearest tag with a temporary clone, because release assets are keyed by
// tag. The asset for the platform is then downloaded once into the build
// directory and reused by every later run.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/git"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
	"github.com/AndreyAkinshin/tsdl/internal/progress"
	"github.com/AndreyAkinshin/tsdl/internal/shell"
)

// Steps is the number of progress steps reported by Provision.
const Steps = 3

// httpTimeout bounds a whole download; release assets are a few megabytes.
const httpTimeout = 10 * time.Minute

// Request describes which build tool to provision and where.
type Request struct {
	Repo     string // e.g. https://github.com/tree-sitter/tree-sitter
	Version  string // e.g. 0.22.6, v0.22.6, master or a commit id
	Platform string // e.g. linux-x64
	BuildDir string
}

// Provisioner downloads tree-sitter release binaries.
type Provisioner struct {
	git    *git.Client
	client *http.Client
}

// NewProvisioner creates a provisioner running git through exec.
func NewProvisioner(exec shell.Executor) *Provisioner {
	return &Provisioner{
		git:    git.New(exec),
		client: &http.Client{Timeout: httpTimeout},
	}
}

// WithHTTPClient replaces the client used for downloads.
func (p *Provisioner) WithHTTPClient(c *http.Client) *Provisioner {
	p.client = c
	return p
}

// Provision returns the absolute path to an executable tree-sitter binary for
// req, downloading it when it is not already in the build directory.
func (p *Provisioner) Provision(ctx context.Context, req Request, h progress.Handle) (string, error) {
	logger := logging.FromContext(ctx).With("version", req.Version, "platform", req.Platform)

	fail := func(msg string, err error) (string, error) {
		return "", &tsdlerrors.ToolchainError{Version: req.Version, Message: msg, Cause: err}
	}

	if err := validateRepoURL(req.Repo); err != nil {
		return fail("could not parse the tree-sitter URL", err)
	}

	h.Start(fmt.Sprintf("Figuring out tag from version %s", req.Version))
	tag, err := p.Tag(ctx, req.Repo, req.Version)
	if err != nil {
		return fail("could not list tags", err)
	}
	logger.Debug("resolved tag", "tag", tag.String(), "exact", tag.IsExact())

	h.Step(fmt.Sprintf("Fetching %s", tag))
	label := tag.Label()
	if !tag.IsExact() {
		h.Msg(fmt.Sprintf("Figuring out the exact tag for %s", tag))
		label, err = p.nearestTag(ctx, req.Repo, tag.Ref(), req.BuildDir)
		if err != nil {
			return fail("could not find a tag for "+tag.String(), err)
		}
	}

	buildDir, err := filepath.Abs(req.BuildDir)
	if err != nil {
		return fail("could not resolve the build directory", err)
	}
	bin := filepath.Join(buildDir, BinaryName(req.Platform))
	if _, err := os.Stat(bin); err == nil {
		logger.Debug("tree-sitter already present", "path", bin)
		h.Fin(label)
		return bin, nil
	}

	h.Msg(fmt.Sprintf("Downloading %s", label))
	asset := fmt.Sprintf("tree-sitter-%s.gz", req.Platform)
	assetURL := fmt.Sprintf("%s/releases/download/%s/%s", strings.TrimSuffix(req.Repo, "/"), label, asset)
	gz := filepath.Join(buildDir, asset)

	if err := p.download(ctx, assetURL, gz); err != nil {
		return fail("could not download "+assetURL, err)
	}
	if err := gunzip(gz, bin); err != nil {
		return fail("could not decompress "+gz, err)
	}
	if err := chmodX(bin); err != nil {
		return fail("could not make "+bin+" executable", err)
	}
	if err := os.Remove(gz); err != nil {
		logger.Warn("could not remove the downloaded archive", "path", gz, "error", err)
	}

	logger.Info("tree-sitter provisioned", "tag", label, "path", bin)
	h.Fin(label)
	return bin, nil
}

// Tag matches version against the remote tags of repo, trying "v<version>"
// before "<version>". A version matching no tag is returned unresolved.
func (p *Provisioner) Tag(ctx context.Context, repo, version string) (git.Tag, error) {
	tags, err := p.git.LsRemoteTags(ctx, repo)
	if err != nil {
		return git.Tag{}, err
	}
	for _, label := range []string{"v" + version, version} {
		if sha, ok := tags[label]; ok {
			return git.ExactTag(label, sha), nil
		}
	}
	return git.UnresolvedTag(git.Ref(version)), nil
}

// nearestTag clones repo into a temporary directory below buildDir and
// returns the closest tag reachable from ref.
func (p *Provisioner) nearestTag(ctx context.Context, repo string, ref git.Ref, buildDir string) (string, error) {
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.MkdirTemp(buildDir, "tree-sitter-tags-")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	dir := filepath.Join(tmp, "tree-sitter")
	if err := p.git.Clone(ctx, repo, dir); err != nil {
		return "", err
	}
	commit, err := p.git.RevParse(ctx, dir, ref)
	if err != nil {
		return "", err
	}
	return p.git.Describe(ctx, dir, commit)
}

func (p *Provisioner) download(ctx context.Context, assetURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "tsdl")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("no release asset at %s", assetURL)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// gunzip decompresses src into dst through a temporary file, so an
// interrupted run never leaves a truncated binary that later runs would reuse.
func gunzip(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer func() { _ = zr.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, zr); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func chmodX(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode()|0o111)
}

func validateRepoURL(repo string) error {
	u, err := url.Parse(repo)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", repo)
	}
	return nil
}
