// Package build wires the pipeline together: read a Lore source file, parse
// it, render the tree in the requested format and write the output file.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fleetinglore/lore/internal/config"
	"github.com/fleetinglore/lore/internal/logger"
	"github.com/fleetinglore/lore/internal/parser"
	"github.com/fleetinglore/lore/internal/render"
	"github.com/fleetinglore/lore/internal/state"
)

// Builder runs builds against one config and one manifest.
type Builder struct {
	Config       *config.Config
	Log          *logger.Logger
	Manifest     *state.Manifest
	ManifestPath string
}

// New creates a builder. A missing or unreadable manifest is replaced with
// an empty one; builds still work, only change detection is lost.
func New(cfg *config.Config, log *logger.Logger) *Builder {
	path := config.ManifestPath()
	manifest, err := state.Load(path)
	if err != nil {
		log.ManifestError("load", err)
		manifest = state.NewManifest()
	}
	return &Builder{
		Config:       cfg,
		Log:          log,
		Manifest:     manifest,
		ManifestPath: path,
	}
}

// Title derives a document title from a file path: the base name without
// its extension, as in the reference collection pages.
func Title(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "local"
	}
	return stem
}

// OutputPath picks the output file for a source: explicit path if given,
// otherwise the source stem plus the format's extension inside dir.
func OutputPath(source, explicit, dir, format string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dir, Title(source)+render.Extension(format))
}

// File builds a single source file and returns the output path. No output
// is written when parsing fails.
func (b *Builder) File(source, output, format string) (string, error) {
	start := time.Now()
	b.Log.BuildStarted(source)

	if format == "" {
		format = b.Config.Format
	}
	output = OutputPath(source, output, b.Config.OutputDir, format)

	doc, err := ParseFile(source)
	if err != nil {
		b.Log.ParseFailed(source, err)
		return "", err
	}

	r, err := render.For(format, Title(output), b.Config.Stylesheet)
	if err != nil {
		return "", err
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", source, err)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		b.Log.WriteFailed(output, err)
		return "", err
	}

	if err := b.Manifest.Record(source, output, format); err != nil {
		b.Log.ManifestError("record", err)
	} else if err := b.Manifest.Save(b.ManifestPath); err != nil {
		b.Log.ManifestError("save", err)
	}

	b.Log.BuildCompleted(source, output, format, time.Since(start))
	return output, nil
}

// FileIfChanged builds source only when the manifest says its content
// changed since the recorded build, or when that build's output is gone.
// Unchanged sources are skipped; watch mode uses this so editor saves that
// do not alter content trigger no rebuild.
func (b *Builder) FileIfChanged(source, output, format string) (string, error) {
	changed, err := b.Manifest.HasChanged(source)
	if err != nil {
		return "", err
	}
	if !changed {
		last := b.Manifest.Builds[source]
		if _, err := os.Stat(last.Output); err == nil {
			b.Log.BuildSkipped(source, "unchanged since last build")
			return last.Output, nil
		}
	}
	return b.File(source, output, format)
}

// Dir builds every *.lore file directly inside dir, skipping excluded
// names. The first failure stops the walk; the count of files already
// built is returned either way.
func (b *Builder) Dir(dir, outDir, format string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	if outDir == "" {
		outDir = b.Config.OutputDir
	}
	if format == "" {
		format = b.Config.Format
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lore" {
			continue
		}
		if b.excluded(entry.Name()) {
			b.Log.BuildSkipped(entry.Name(), "excluded by config")
			continue
		}
		sources = append(sources, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(sources)

	built := 0
	for _, source := range sources {
		out := filepath.Join(outDir, Title(source)+render.Extension(format))
		if _, err := b.File(source, out, format); err != nil {
			return built, err
		}
		built++
	}
	return built, nil
}

func (b *Builder) excluded(name string) bool {
	for _, pattern := range b.Config.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ParseFile reads and parses one source file.
func ParseFile(path string) (*parser.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(string(src))
}

// Canonical returns the canonical text rendering of a source file, used by
// the fmt command.
func Canonical(path string) (string, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return "", err
	}
	out, err := (&render.Text{}).Render(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
