package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/galleria/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// start from defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := splitPair(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = theme.SetField(current, key, value)
		case section == "viewer":
			err = setViewerField(&cfg.Viewer, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			setRootField(cfg, key, value)
		}
		if err != nil {
			where := "root section"
			if section != "" {
				where = "section [" + section + "]"
			}
			return nil, fmt.Errorf("line %d: error in %s: %w", lineNo, where, err)
		}
	}

	return cfg, scanner.Err()
}

// splitPair parses "key = value" or "key: value", dropping surrounding quotes.
func splitPair(line string) (key, value string, ok bool) {
	sep := strings.IndexAny(line, "=:")
	if sep < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:sep])
	value = strings.TrimSpace(line[sep+1:])
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "catalog":
		cfg.Catalog = value
	case "section":
		cfg.Section = value
	case "log_level":
		cfg.LogLevel = value
	}
}

func setViewerField(v *Viewer, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < 0 {
		return fmt.Errorf("key %s must not be negative", key)
	}
	switch strings.ToLower(key) {
	case "transition_ms":
		v.TransitionMS = n
	case "thumb_size":
		v.ThumbSize = n
	case "workers":
		v.Workers = n
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func colorField(t *theme.Theme, name string) color.RGBA {
	f := reflect.ValueOf(t).Elem().FieldByName(name)
	if c, ok := f.Interface().(color.RGBA); ok {
		return c
	}
	return color.RGBA{}
}
