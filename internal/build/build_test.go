package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetinglore/lore/internal/config"
	"github.com/fleetinglore/lore/internal/logger"
)

const sampleSource = `+ music
  [ aphex twin ] = https://aphextwin.warp.net
  ambient
+ reading
  borges
`

func overrideManifestPath(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	original := config.ManifestPath
	config.ManifestPath = func() string { return path }
	t.Cleanup(func() { config.ManifestPath = original })
}

func testBuilder(t *testing.T, outputDir string) *Builder {
	t.Helper()
	overrideManifestPath(t)
	cfg := config.DefaultConfig()
	cfg.OutputDir = outputDir
	return New(cfg, logger.Discard())
}

func writeLore(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTitle(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes/music.lore", "music"},
		{"music.html", "music"},
		{"/tmp/out/index.json", "index"},
		{".lore", "local"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Title(tt.path), "path: %s", tt.path)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "custom.html", OutputPath("a.lore", "custom.html", "out", "html"))
	assert.Equal(t, filepath.Join("out", "a.html"), OutputPath("a.lore", "", "out", "html"))
	assert.Equal(t, filepath.Join("out", "a.lore"), OutputPath("a.lore", "", "out", "text"))
	assert.Equal(t, filepath.Join("out", "a.json"), OutputPath("a.lore", "", "out", "json"))
}

func TestFileBuildsHTML(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "music.lore", sampleSource)
	b := testBuilder(t, dir)

	output, err := b.File(source, "", "html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "music.html"), output)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "<title>music</title>")
	assert.Contains(t, html, "https://aphextwin.warp.net")
	assert.Contains(t, html, "aphex twin")

	build, ok := b.Manifest.Builds[source]
	require.True(t, ok, "build should be recorded in the manifest")
	assert.Equal(t, output, build.Output)
	assert.Equal(t, "html", build.Format)
}

func TestFileBuildsCanonicalText(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "notes.lore", "+ g\n    deep\n")
	b := testBuilder(t, dir)

	output, err := b.File(source, filepath.Join(dir, "out.lore"), "text")
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "+ g\n  deep\n", string(content))
}

func TestFileParseFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "broken.lore", "[ unterminated\n")
	b := testBuilder(t, dir)

	_, err := b.File(source, "", "html")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "broken.html"))
	assert.True(t, os.IsNotExist(statErr), "no output should be written on parse failure")
	assert.Empty(t, b.Manifest.Builds)
}

func TestFileCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "a.lore", "x\n")
	b := testBuilder(t, dir)

	output, err := b.File(source, filepath.Join(dir, "nested", "deep", "a.html"), "html")
	require.NoError(t, err)
	_, statErr := os.Stat(output)
	assert.NoError(t, statErr)
}

func TestDirBuildsAllLoreFiles(t *testing.T) {
	dir := t.TempDir()
	writeLore(t, dir, "a.lore", "one\n")
	writeLore(t, dir, "b.lore", "two\n")
	writeLore(t, dir, "notes.txt", "not lore\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	outDir := t.TempDir()
	b := testBuilder(t, outDir)

	count, err := b.Dir(dir, outDir, "html")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, name := range []string{"a.html", "b.html"} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr, "expected %s", name)
	}
	_, statErr := os.Stat(filepath.Join(outDir, "notes.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileIfChangedSkipsUnchangedSource(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "notes.lore", "stable\n")
	b := testBuilder(t, dir)

	output, err := b.File(source, "", "html")
	require.NoError(t, err)

	// Scribble over the output; a skipped rebuild must not restore it.
	require.NoError(t, os.WriteFile(output, []byte("sentinel"), 0644))

	got, err := b.FileIfChanged(source, "", "html")
	require.NoError(t, err)
	assert.Equal(t, output, got)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "sentinel", string(content), "unchanged source should not be rebuilt")
}

func TestFileIfChangedRebuildsOnContentChange(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "notes.lore", "before\n")
	b := testBuilder(t, dir)

	output, err := b.File(source, "", "html")
	require.NoError(t, err)

	writeLore(t, dir, "notes.lore", "after\n")
	// mtime has second granularity; push it forward so the change is seen.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(source, future, future))

	_, err = b.FileIfChanged(source, "", "html")
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<p>after</p>")
}

func TestFileIfChangedRebuildsWhenOutputMissing(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "notes.lore", "stable\n")
	b := testBuilder(t, dir)

	output, err := b.File(source, "", "html")
	require.NoError(t, err)
	require.NoError(t, os.Remove(output))

	got, err := b.FileIfChanged(source, "", "html")
	require.NoError(t, err)
	assert.Equal(t, output, got)

	_, statErr := os.Stat(output)
	assert.NoError(t, statErr, "missing output should be rebuilt even when the source is unchanged")
}

func TestDirHonorsExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeLore(t, dir, "keep.lore", "x\n")
	writeLore(t, dir, "draft-ideas.lore", "y\n")

	outDir := t.TempDir()
	b := testBuilder(t, outDir)
	b.Config.ExcludePatterns = []string{"draft-*"}

	count, err := b.Dir(dir, outDir, "html")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, statErr := os.Stat(filepath.Join(outDir, "draft-ideas.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDirReturnsPartialCountOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeLore(t, dir, "a.lore", "fine\n")
	writeLore(t, dir, "b.lore", "[ unterminated\n")
	writeLore(t, dir, "c.lore", "never reached\n")

	outDir := t.TempDir()
	b := testBuilder(t, outDir)

	count, err := b.Dir(dir, outDir, "html")
	require.Error(t, err)
	assert.Equal(t, 1, count, "files built before the failure should be counted")

	_, statErr := os.Stat(filepath.Join(outDir, "a.html"))
	assert.NoError(t, statErr)
}

func TestCanonical(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "c.lore", "+ g\n    [ a ] = b\n")

	got, err := Canonical(source)
	require.NoError(t, err)
	assert.Equal(t, "+ g\n  a = b\n", got)
}

func TestCanonicalIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := writeLore(t, dir, "c.lore", "+ outer\n  inner = https://x.test\n  [ two words ]\n")

	once, err := Canonical(source)
	require.NoError(t, err)

	again := writeLore(t, dir, "again.lore", once)
	twice, err := Canonical(again)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFileBuildsFixture(t *testing.T) {
	outDir := t.TempDir()
	b := testBuilder(t, outDir)

	output, err := b.File(filepath.Join("testdata", "collection.lore"), "", "html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "collection.html"), output)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "<summary>listening</summary>")
	assert.Contains(t, html, "<summary>ambient</summary>")
	assert.Contains(t, html, `href="https://boardsofcanada.com"`)
	assert.Contains(t, html, "<p>loose thought</p>")

	canonical, err := Canonical(filepath.Join("testdata", "collection.lore"))
	require.NoError(t, err)
	assert.Contains(t, canonical, "+ listening\n")
	assert.Contains(t, canonical, "  + ambient\n")
	assert.Contains(t, canonical, "    eno\n")
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.lore"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no such file") || os.IsNotExist(err))
}
