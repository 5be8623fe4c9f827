package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/example/galleria/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Viewer holds display and loading settings.
type Viewer struct {
	TransitionMS int
	ThumbSize    int
	Workers      int
}

// Transition returns the crossfade length.
func (v Viewer) Transition() time.Duration {
	return time.Duration(v.TransitionMS) * time.Millisecond
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	Catalog  string
	Section  string
	LogLevel string
	Viewer   Viewer
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Viewer: Viewer{
			TransitionMS: 500,
			ThumbSize:    96,
			Workers:      runtime.NumCPU(),
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	for _, kv := range [][2]string{
		{"theme", c.Theme},
		{"catalog", c.Catalog},
		{"section", c.Section},
		{"log_level", c.LogLevel},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv[0], kv[1])
		}
	}
	sb.WriteString("\n")

	sb.WriteString("[viewer]\n")
	fmt.Fprintf(&sb, "transition_ms = %d\n", c.Viewer.TransitionMS)
	fmt.Fprintf(&sb, "thumb_size = %d\n", c.Viewer.ThumbSize)
	fmt.Fprintf(&sb, "workers = %d\n", c.Viewer.Workers)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := theme.Fields()
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range fields {
			fmt.Fprintf(&sb, "%s: %s\n", f, theme.Hex(colorField(t, f)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ResolveTheme returns the theme named name: a [theme.NAME] block from the
// configuration when present, otherwise whatever l finds.
func (c *Config) ResolveTheme(l *theme.Loader, name string) (*theme.Theme, error) {
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	return l.Load(name)
}
