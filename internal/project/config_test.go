package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[migrate]
exempt_taglibs = ["marko-widgets", "legacy-ui"]
rules = ["ref-attribute"]
fix = "Once"

[[taglib]]
id = "legacy-ui"
tags = ["fancy", "fancier"]
migrate = ["fancier"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path)
	require.Equal(t, dir, cfg.Root)
	require.Equal(t, []string{"marko-widgets", "legacy-ui"}, cfg.Migrate.ExemptTaglibs)
	require.Equal(t, []string{"ref-attribute"}, cfg.Migrate.Rules)
	require.Equal(t, "once", cfg.Migrate.Fix)
	// не заданы в файле: остаются по умолчанию
	require.Equal(t, []string{".marko"}, cfg.Migrate.Extensions)

	reg := cfg.Registry()
	def, ok := reg.Lookup("fancier")
	require.True(t, ok)
	require.Equal(t, "legacy-ui", def.TaglibID)
	require.True(t, def.Migrate)
	require.Equal(t, "legacy-ui/fancier", def.Path)

	_, ok = reg.Lookup("invoke")
	require.True(t, ok, "built-in taglibs stay registered")
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad fix", body: "[migrate]\nfix = \"sometimes\"\n"},
		{name: "unknown key", body: "[migrate]\nfixes = \"all\"\n"},
		{name: "taglib without id", body: "[[taglib]]\ntags = [\"a\"]\n"},
		{name: "taglib without tags", body: "[[taglib]]\nid = \"x\"\n"},
		{name: "migrate not in tags", body: "[[taglib]]\nid = \"x\"\ntags = [\"a\"]\nmigrate = [\"b\"]\n"},
		{name: "bad extension", body: "[migrate]\nextensions = [\"marko\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Contains(t, err.Error(), path)
		})
	}

	path := writeConfig(t, t.TempDir(), "[migrate\n")
	_, err := Load(path)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), ConfigName))
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[migrate]\nfix = \"none\"\n")
	nested := filepath.Join(root, "src", "views")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested)
	require.NoError(t, err)
	require.Equal(t, "none", cfg.Migrate.Fix)
	require.Equal(t, root, cfg.Root)

	found, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, found)
}

func TestDiscoverDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover(dir)
	require.NoError(t, err)
	require.Empty(t, cfg.Path)
	require.Equal(t, "all", cfg.Migrate.Fix)
	require.True(t, cfg.Matches("a/b/page.marko"))
	require.False(t, cfg.Matches("a/b/page.js"))
	require.True(t, cfg.Excluded("/x/node_modules"))
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	def := Default().Migrate
	require.Equal(t, def.Fix, cfg.Migrate.Fix)
	require.Equal(t, def.ExemptTaglibs, cfg.Migrate.ExemptTaglibs)
	require.Equal(t, def.Extensions, cfg.Migrate.Extensions)
	require.Equal(t, def.Exclude, cfg.Migrate.Exclude)
	require.Empty(t, cfg.Migrate.Rules)

	_, err = WriteDefault(dir)
	require.Error(t, err, "existing config must not be overwritten")
}

func TestDigestTracksSettings(t *testing.T) {
	a, err := Default().Digest()
	require.NoError(t, err)
	b, err := Default().Digest()
	require.NoError(t, err)
	require.Equal(t, a, b)

	cfg := Default()
	cfg.Migrate.Fix = "none"
	c, err := cfg.Digest()
	require.NoError(t, err)
	require.NotEqual(t, a, c)
	require.Len(t, c.String(), 64)
}
