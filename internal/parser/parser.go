// Package parser builds the tree-sitter parsers of one language: it brings the
// repository to the requested ref, then generates, compiles and copies every
// grammar found in it.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/AndreyAkinshin/tsdl/internal/config"
	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/git"
	"github.com/AndreyAkinshin/tsdl/internal/grammar"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
	"github.com/AndreyAkinshin/tsdl/internal/progress"
	"github.com/AndreyAkinshin/tsdl/internal/shell"
)

// Steps is the number of progress steps reported per language.
const Steps = 3

// ErrNoGrammar is the cause of the build failure of a repository without any
// grammar.js outside the excluded directories.
var ErrNoGrammar = errors.New("no grammar found")

// ErrArtifactClash is the cause of the copy failure of a grammar root whose
// artifact name was already produced by another root of the same language.
var ErrArtifactClash = errors.New("artifact name clash")

// Language is everything needed to build the parsers of one language.
type Language struct {
	Name        string
	Repo        string
	Ref         git.Ref
	BuildScript string // Replaces generate and build when set
	CloneDir    string
	OutDir      string
	Prefix      string
	Exts        []string // Artifact extensions, e.g. "so" and "wasm"
	TreeSitter  string   // Path of the tree-sitter CLI
	Handle      progress.Handle
}

// Builder runs the per-language pipeline.
type Builder struct {
	exec shell.Executor
	git  *git.Client
}

// NewBuilder creates a builder running its commands with exec.
func NewBuilder(exec shell.Executor) *Builder {
	return &Builder{exec: exec, git: git.New(exec)}
}

// Build runs the pipeline for lang and reports progress on its handle.
// A failing grammar root does not stop its siblings; every failure is
// collected in the returned error, which is nil on success.
func (b *Builder) Build(ctx context.Context, lang Language) *tsdlerrors.LanguageError {
	h := lang.Handle
	if h == nil {
		h = progress.Discard
	}
	logger := logging.FromContext(ctx).With("language", lang.Name, "ref", string(lang.Ref))

	steps := b.steps(ctx, lang, h, logger)
	if len(steps) > 0 {
		h.Err(lang.Ref.String())
		return &tsdlerrors.LanguageError{Name: lang.Name, Steps: steps}
	}
	h.Fin(lang.Ref.String())
	logger.Info("built", "out", lang.OutDir)
	return nil
}

func (b *Builder) steps(ctx context.Context, lang Language, h progress.Handle, logger *slog.Logger) []*tsdlerrors.StepError {
	ref := lang.Ref.String()

	h.Start("Cloning " + ref)
	logger.Debug("fast clone", "repo", lang.Repo, "dir", lang.CloneDir)
	if err := b.git.FastClone(ctx, lang.Repo, lang.Ref, lang.CloneDir); err != nil {
		return []*tsdlerrors.StepError{lang.stepError(tsdlerrors.PhaseClone, lang.CloneDir, err)}
	}

	h.Step("Generating " + ref)
	roots, err := grammar.Find(lang.CloneDir)
	if err == nil && len(roots) == 0 {
		err = ErrNoGrammar
	}
	if err != nil {
		return []*tsdlerrors.StepError{lang.stepError(tsdlerrors.PhaseBuild, lang.CloneDir, err)}
	}
	logger.Debug("grammars found", "roots", roots)

	var failed []*tsdlerrors.StepError
	claimed := make(map[string]string)
	for _, root := range roots {
		if err := b.buildRoot(ctx, lang, root, claimed, h, logger); err != nil {
			failed = append(failed, err)
		}
	}
	return failed
}

// buildRoot generates, compiles and copies the parsers of one grammar root.
// claimed maps each artifact already copied for lang to the root it came
// from; a root whose artifact name is taken fails instead of overwriting it.
func (b *Builder) buildRoot(ctx context.Context, lang Language, root string, claimed map[string]string, h progress.Handle, logger *slog.Logger) *tsdlerrors.StepError {
	ref := lang.Ref.String()
	name := filepath.Base(root)

	if lang.BuildScript == "" {
		h.Msg(fmt.Sprintf("Generating %s in %s", ref, name))
		cmd := shell.Command{Name: lang.TreeSitter, Args: []string{"generate"}, Dir: root}
		if _, err := b.exec.Run(ctx, cmd); err != nil {
			return lang.stepError(tsdlerrors.PhaseGenerate, root, err)
		}
	} else {
		logger.Warn("parser generation skipped: a build script is set and is expected to generate the parser itself", "dir", root)
	}

	for _, ext := range lang.Exts {
		h.Msg(fmt.Sprintf("Building %s %s parser: %s", ref, kind(ext), name))
		if _, err := b.exec.Run(ctx, lang.compileCommand(root, ext)); err != nil {
			return lang.stepError(tsdlerrors.PhaseBuild, root, err)
		}
	}

	h.Msg(fmt.Sprintf("Copying %s parser: %s", ref, name))
	for _, ext := range lang.Exts {
		dst := filepath.Join(lang.OutDir, ArtifactName(lang.Prefix, root, ext))
		src, err := Locate(root, ArtifactName(lang.Prefix, root, ext), ext)
		if other, ok := claimed[dst]; ok && err == nil {
			err = fmt.Errorf("%w: %s and %s both produce %s", ErrArtifactClash, other, root, filepath.Base(dst))
		}
		if err == nil {
			err = copyFile(src, dst)
		}
		if err != nil {
			se := lang.stepError(tsdlerrors.PhaseCopy, root, err)
			se.Src, se.Dst = src, dst
			if se.Src == "" {
				se.Src = root
			}
			return se
		}
		claimed[dst] = root
		logger.Debug("copied", "src", src, "dst", dst)
	}
	return nil
}

func (lang Language) compileCommand(root, ext string) shell.Command {
	if lang.BuildScript != "" {
		return shell.Script(lang.BuildScript, root)
	}
	args := []string{"build"}
	if ext == config.WasmExtension {
		args = append(args, "--wasm")
	}
	args = append(args, "--output", ArtifactName(lang.Prefix, root, ext))
	return shell.Command{Name: lang.TreeSitter, Args: args, Dir: root}
}

func (lang Language) stepError(phase tsdlerrors.Phase, dir string, cause error) *tsdlerrors.StepError {
	return &tsdlerrors.StepError{Language: lang.Name, Phase: phase, Dir: dir, Cause: cause}
}

func kind(ext string) string {
	if ext == config.WasmExtension {
		return "wasm"
	}
	return "native"
}
