package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/galleria/internal/catalog"
	"github.com/example/galleria/internal/config"
	"github.com/example/galleria/internal/gallery"
	"github.com/example/galleria/internal/loader"
	"github.com/example/galleria/internal/logging"
	"github.com/example/galleria/internal/notify"
	"github.com/example/galleria/internal/render"
	"github.com/example/galleria/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	log         *zap.Logger
	stdout      io.Writer
	stderr      io.Writer
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	catalogPath string
	logLevel    string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		log:         r.log,
		stdout:      r.stdout,
		stderr:      r.stderr,
		saveAlerts:  r.saveAlerts,
		copyAlerts:  r.copyAlerts,
		themeName:   r.themeName,
		catalogPath: r.catalogPath,
		logLevel:    r.logLevel,
		activeTheme: r.activeTheme,
	}
}

func newRoot(stdout, stderr io.Writer) *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:      flag.NewFlagSet("galleria", flag.ExitOnError),
		program: "galleria",
		config:  cfg,
		stdout:  stdout,
		stderr:  stderr,
	}
	r.fs.SetOutput(stderr)
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a frame")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying a frame to the clipboard")
	r.fs.StringVar(&r.catalogPath, "catalog", cfg.Catalog, "catalog file describing the sections (default: built-in catalog)")
	r.fs.StringVar(&r.logLevel, "log-level", cfg.LogLevel, "logging verbosity: none, normal or debug")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(themeNames(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func themeNames() []string {
	names := []string{"default"}
	for _, n := range theme.Names() {
		if n != "default" {
			names = append(names, n)
		}
	}
	return names
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}

	log, err := logging.New(r.logLevel)
	if err != nil {
		return &UsageError{of: r, err: err}
	}
	r.log = log

	r.notifier = notify.New(notify.LoadPreferences(), notify.WithLogger(log))
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)

	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("GALLERIA_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}
	t, err := r.config.ResolveTheme(theme.NewLoader(), themeName)
	if err != nil {
		log.Warn("Failed to load theme, using default", zap.String("theme", themeName), zap.Error(err))
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r.subcommand(cmdName))
	case "sections":
		cmd, err = parseSectionsCmd(subArgs, r.subcommand(cmdName))
	case "render":
		cmd, err = parseRenderCmd(subArgs, r.subcommand(cmdName))
	case "export":
		cmd, err = parseExportCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd, err = parseVersionCmd(subArgs, r.subcommand(cmdName))
	default:
		err = &UsageError{of: r, err: fmt.Errorf("unknown command %q", cmdName)}
	}
	if err != nil {
		return err
	}
	defer func() { _ = r.log.Sync() }()
	return cmd.Run()
}

// loadCatalog reads the catalog named by -catalog or the config file, or the
// built-in catalog when neither is set.
func (r *root) loadCatalog() (*catalog.Catalog, error) {
	if r.catalogPath == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(r.catalogPath)
}

func (r *root) newLoader() *loader.Loader {
	return loader.New(
		loader.WithWorkers(r.config.Viewer.Workers),
		loader.WithThumbSize(r.config.Viewer.ThumbSize),
		loader.WithLogger(r.log),
	)
}

func (r *root) newState(cat *catalog.Catalog) *gallery.State {
	return gallery.New(cat,
		gallery.WithTransitionDuration(r.config.Viewer.Transition()),
		gallery.WithLogger(r.log),
	)
}

func (r *root) newRenderer() *render.Renderer {
	rd := render.New(r.activeTheme)
	if n := r.config.Viewer.ThumbSize; n > 0 {
		rd.ThumbSize = n
	}
	return rd
}

// loadSection decodes every image of the section named key synchronously
// and returns a state showing its first image.
func (r *root) loadSection(ctx context.Context, cat *catalog.Catalog, key string) (*gallery.State, error) {
	st := r.newState(cat)
	if key == "" {
		key = r.config.Section
	}
	if key == "" {
		if sec := cat.Default(); sec != nil {
			key = sec.Key
		}
	}
	gen, err := st.SelectSection(key)
	if err != nil {
		return nil, err
	}
	for _, res := range r.newLoader().Load(ctx, gen, st.Section()) {
		st.Commit(res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return st, nil
}

func main() {
	r := newRoot(os.Stdout, os.Stderr)
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
