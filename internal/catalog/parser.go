package catalog

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"gopkg.in/yaml.v3"

	"github.com/example/galleria/internal/arrow"
)

//go:embed defaults/catalog.yaml
var embedded embed.FS

type fileSection struct {
	Key    string            `yaml:"key"`
	Name   string            `yaml:"name"`
	Path   string            `yaml:"path"`
	Images []string          `yaml:"images"`
	Glob   string            `yaml:"glob"`
	Arrow  map[int][]float64 `yaml:"arrow"`
}

type file struct {
	Sections []fileSection `yaml:"sections"`
}

var rangeRe = regexp.MustCompile(`\{(\d+)\.\.(\d+)\}`)

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	f, err := embedded.Open("defaults/catalog.yaml")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, "")
}

// LoadFile reads a catalog from path. Relative section paths are resolved
// against the catalog's directory.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, filepath.Dir(path))
}

// Parse decodes a YAML catalog. baseDir, when non-empty, prefixes relative
// section paths and is where glob patterns are evaluated from.
func Parse(r io.Reader, baseDir string) (*Catalog, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	sections := make([]*Section, 0, len(doc.Sections))
	for _, fsec := range doc.Sections {
		s, err := fsec.build(baseDir)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", fsec.Key, err)
		}
		sections = append(sections, s)
	}
	return New(sections...)
}

func (fsec fileSection) build(baseDir string) (*Section, error) {
	s := &Section{Key: fsec.Key, Name: fsec.Name, Path: resolvePath(baseDir, fsec.Path)}
	if s.Name == "" {
		s.Name = s.Key
	}
	switch {
	case len(fsec.Images) > 0 && fsec.Glob != "":
		return nil, fmt.Errorf("images and glob are mutually exclusive")
	case fsec.Glob != "":
		names, err := globImages(s.Path, fsec.Glob)
		if err != nil {
			return nil, err
		}
		s.Images = names
		// glob matches are relative to the directory
		if s.Path != "" && !strings.HasSuffix(s.Path, "/") {
			s.Path += "/"
		}
	default:
		for _, name := range fsec.Images {
			expanded, err := ExpandRange(name)
			if err != nil {
				return nil, err
			}
			s.Images = append(s.Images, expanded...)
		}
	}
	if len(fsec.Arrow) > 0 {
		points := make(map[int][2]float64, len(fsec.Arrow))
		for idx, p := range fsec.Arrow {
			if len(p) != 2 {
				return nil, fmt.Errorf("arrow keyframe %d: want [x, y], got %d values", idx, len(p))
			}
			points[idx] = [2]float64{p[0], p[1]}
		}
		s.Arrow = arrow.New(points)
	}
	return s, nil
}

func resolvePath(baseDir, p string) string {
	if baseDir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	joined := filepath.ToSlash(filepath.Join(baseDir, p))
	if strings.HasSuffix(p, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}

// ExpandRange expands a single numeric brace range: "img{1..3}.png" yields
// img1.png, img2.png, img3.png. Names without a range are returned as is.
func ExpandRange(name string) ([]string, error) {
	m := rangeRe.FindStringSubmatchIndex(name)
	if m == nil {
		return []string{name}, nil
	}
	lo, err := strconv.Atoi(name[m[2]:m[3]])
	if err != nil {
		return nil, fmt.Errorf("range in %q: %w", name, err)
	}
	hi, err := strconv.Atoi(name[m[4]:m[5]])
	if err != nil {
		return nil, fmt.Errorf("range in %q: %w", name, err)
	}
	if hi < lo {
		return nil, fmt.Errorf("range in %q: end %d before start %d", name, hi, lo)
	}
	prefix, suffix := name[:m[0]], name[m[1]:]
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, prefix+strconv.Itoa(i)+suffix)
	}
	return out, nil
}

func globImages(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob %q", pattern)
	}
	root := dir
	if root == "" {
		root = "."
	}
	names, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}
