package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/AndreyAkinshin/tsdl/internal/config"
	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
	"github.com/AndreyAkinshin/tsdl/internal/parser"
	"github.com/AndreyAkinshin/tsdl/internal/progress"
	"github.com/AndreyAkinshin/tsdl/internal/runner"
	"github.com/AndreyAkinshin/tsdl/internal/toolchain"
)

// BuildCmd downloads the tree-sitter CLI and builds parsers. Its flags
// override the configuration file only when present on the command line.
type BuildCmd struct {
	Languages []string `arg:"" optional:"" help:"Languages to build. Defaults to every parser of the configuration."`

	BuildDir           string        `short:"b" placeholder:"DIR" help:"Directory of clones, the tree-sitter binary and the log (default: tmp)."`
	OutDir             string        `short:"o" placeholder:"DIR" help:"Directory receiving the parsers (default: parsers)."`
	Prefix             string        `short:"p" help:"Prefix of every parser file name (default: libtree-sitter-)."`
	Fresh              bool          `short:"f" negatable:"" help:"Remove the build directory first."`
	NCPUs              int           `name:"ncpus" short:"n" help:"Number of languages built concurrently (default: number of CPUs)."`
	ShowConfig         bool          `negatable:"" help:"Print the languages and the configuration before building."`
	Target             config.Target `short:"t" placeholder:"native|wasm|all" help:"Parsers to build (default: native)."`
	TreeSitterVersion  string        `name:"tree-sitter-version" short:"V" help:"Version of the tree-sitter CLI."`
	TreeSitterRepo     string        `name:"tree-sitter-repo" short:"R" help:"Repository of the tree-sitter CLI releases."`
	TreeSitterPlatform string        `name:"tree-sitter-platform" help:"Platform of the tree-sitter CLI release, e.g. linux-x64."`
}

// layer keeps the flags present on the command line.
func (b *BuildCmd) layer(explicit map[string]bool) *config.Layer {
	return &config.Layer{
		BuildDir:   flag(explicit, "build-dir", b.BuildDir),
		OutDir:     flag(explicit, "out-dir", b.OutDir),
		Prefix:     flag(explicit, "prefix", b.Prefix),
		Fresh:      flag(explicit, "fresh", b.Fresh),
		NCPUs:      flag(explicit, "ncpus", b.NCPUs),
		ShowConfig: flag(explicit, "show-config", b.ShowConfig),
		Target:     flag(explicit, "target", b.Target),
		TreeSitter: config.TreeSitterLayer{
			Version:  flag(explicit, "tree-sitter-version", b.TreeSitterVersion),
			Repo:     flag(explicit, "tree-sitter-repo", b.TreeSitterRepo),
			Platform: flag(explicit, "tree-sitter-platform", b.TreeSitterPlatform),
		},
	}
}

func flag[T any](explicit map[string]bool, name string, v T) *T {
	if !explicit[name] {
		return nil
	}
	return config.Ptr(v)
}

// Run builds the requested languages.
func (b *BuildCmd) Run(a *app) error {
	cfg, err := a.resolve(b.layer(a.explicit))
	if err != nil {
		return err
	}
	if cfg.BuildDir, err = filepath.Abs(cfg.BuildDir); err != nil {
		return tsdlerrors.Wrap(err, "could not resolve the build directory")
	}
	if cfg.OutDir, err = filepath.Abs(cfg.OutDir); err != nil {
		return tsdlerrors.Wrap(err, "could not resolve the output directory")
	}

	languages := cfg.Languages(b.Languages)
	if cfg.ShowConfig {
		if err := a.showConfig(cfg, b.Languages, languages); err != nil {
			return err
		}
	}
	if len(languages) == 0 {
		a.out.Warning("nothing to build: declare [parsers] in %s or name languages on the command line", a.cli.ConfigFile)
		return nil
	}

	r := runner.New(parser.NewBuilder(a.env.exec), cfg.NCPUs)
	a.out.Info("Building %d language(s) with %d worker(s)", len(languages), r.Workers())

	prog := a.newProgress()
	closeProgress := sync.OnceValue(prog.Close)
	defer closeProgress()
	stopTicker := startTicker(prog)
	defer stopTicker()

	if cfg.Fresh {
		if err := clean(cfg.BuildDir, prog); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(cfg.BuildDir, 0o755); err != nil {
		return tsdlerrors.Wrap(err, "could not create the build directory")
	}

	logPath := a.cli.Log
	if logPath == "" {
		logPath = filepath.Join(cfg.BuildDir, "log")
	}
	logFile, err := logging.Open(logPath, logging.Options{Level: a.logLevel(), Time: logging.TimeFromEnv()})
	if err != nil {
		return tsdlerrors.Wrap(err, "could not open the log file")
	}
	defer logFile.Close()
	a.logPath = logFile.Path()

	logger := logFile.Logger
	ctx := logging.WithLogger(a.ctx, logger)
	logger.Info("starting", "version", Version, "languages", languages, "build_dir", cfg.BuildDir)
	for _, w := range a.warnings {
		logger.Warn(w, "config", a.cli.ConfigFile)
	}

	h := prog.Register("tree-sitter-cli", toolchain.Steps)
	provisioner := toolchain.NewProvisioner(a.env.exec)
	if a.env.http != nil {
		provisioner = provisioner.WithHTTPClient(a.env.http)
	}
	treeSitter, err := provisioner.Provision(ctx, toolchain.Request{
		Repo:     cfg.TreeSitter.Repo,
		Version:  cfg.TreeSitter.Version,
		Platform: cfg.TreeSitter.Platform,
		BuildDir: cfg.BuildDir,
	}, h)
	if err != nil {
		h.Err(cfg.TreeSitter.Version)
		logger.Error("tree-sitter unavailable", "err", err)
		return err
	}

	langs, err := collect(ctx, cfg, languages, treeSitter)
	if err != nil {
		logger.Error("invalid languages", "err", err)
		return err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return tsdlerrors.Wrap(err, "could not create the output directory")
	}
	for i := range langs {
		langs[i].Handle = prog.Register(langs[i].Name, parser.Steps)
	}

	start := time.Now()
	err = r.Run(ctx, langs)
	stopTicker()
	if cerr := closeProgress(); cerr != nil {
		logger.Warn("progress display", "err", cerr)
	}
	if err != nil {
		return err
	}

	logger.Info("done", "languages", len(langs), "elapsed", time.Since(start))
	a.out.FinalSuccess("Built %d language(s) into %s in %s",
		len(langs), cfg.OutDir, progress.FormatDuration(time.Since(start)))
	return nil
}

// collect turns language names into pipeline inputs. Every language that
// cannot be set up is reported, not only the first one.
func collect(ctx context.Context, cfg *config.Config, languages []string, treeSitter string) ([]parser.Language, error) {
	logger := logging.FromContext(ctx)
	exts := cfg.Target.Extensions(config.NativeExtension())

	var langs []parser.Language
	var failed []*tsdlerrors.LanguageError
	for _, name := range languages {
		coords, err := cfg.Coordinates(name)
		if err != nil {
			failed = append(failed, &tsdlerrors.LanguageError{Name: name, Cause: err})
			continue
		}
		if !coords.Declared {
			logger.Warn("language not declared in [parsers], building HEAD", "language", coords.Name, "repo", coords.Repo)
		}
		langs = append(langs, parser.Language{
			Name:        coords.Name,
			Repo:        coords.Repo,
			Ref:         coords.Ref,
			BuildScript: coords.BuildScript,
			CloneDir:    filepath.Join(cfg.BuildDir, name),
			OutDir:      cfg.OutDir,
			Prefix:      cfg.Prefix,
			Exts:        exts,
			TreeSitter:  treeSitter,
		})
	}
	if len(failed) > 0 {
		return nil, tsdlerrors.NewAggregate("could not figure out all languages", failed)
	}
	return langs, nil
}

// clean removes the build directory, reporting it as its own task.
func clean(dir string, prog progress.Progress) error {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	h := prog.Register("Fresh Build", 1)
	if err := os.RemoveAll(dir); err != nil {
		h.Err(dir)
		return tsdlerrors.Wrap(err, "could not remove the build directory "+dir)
	}
	h.Fin("Cleaned " + dir)
	return nil
}

// startTicker refreshes animated progress until the returned function is
// called. The returned function may be called more than once.
func startTicker(prog progress.Progress) func() {
	ticker := time.NewTicker(time.Second / 7)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				prog.Tick()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (a *app) showConfig(cfg *config.Config, requested, languages []string) error {
	if len(requested) > 0 {
		a.out.Println("Building the following languages:")
		a.out.Println("")
		for _, line := range columns(languages, "  ", 80) {
			a.out.Println("%s", line)
		}
	} else {
		a.out.Println("Building all languages.")
	}
	a.out.Println("")
	a.out.Println("Running with the following configuration:")
	a.out.Println("")
	if err := a.printConfig(cfg, string(config.FormatTOML), "  "); err != nil {
		return err
	}
	a.out.Println("")
	return nil
}

// columns lays names out in rows no wider than width.
func columns(names []string, indent string, width int) []string {
	var lines []string
	line := indent
	for _, name := range names {
		if line != indent && len(line)+2+len(name) > width {
			lines = append(lines, line)
			line = indent
		}
		if line != indent {
			line += "  "
		}
		line += name
	}
	if line != indent {
		lines = append(lines, line)
	}
	return lines
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
