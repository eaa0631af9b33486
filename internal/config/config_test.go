package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/revtrail/internal/config"
)

func Test_Load_UsesDefaultStoreDir_WhenNoConfigFilesExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, ".revtrail", cfg.StoreDir)
	require.Equal(t, filepath.Join(dir, ".revtrail"), cfg.StoreDirAbs)
	require.Empty(t, cfg.Sources.Project)
}

func Test_Load_ReadsProjectConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"store_dir": "my-store"}`), 0o644))

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, "my-store", cfg.StoreDir)
	require.Equal(t, filepath.Join(dir, config.FileName), cfg.Sources.Project)
}

func Test_Load_TolerantOfJSONCComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "{\n  // a comment\n  \"store_dir\": \"commented-store\",\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, "commented-store", cfg.StoreDir)
}

func Test_Load_ExplicitConfigFlag_MustExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := config.Load(config.LoadInput{WorkDirOverride: dir, ConfigPath: "missing.json", Env: map[string]string{}})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func Test_Load_ExplicitConfigFlag_OverridesProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"store_dir": "from-default"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.json"), []byte(`{"store_dir": "from-custom"}`), 0o644))

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, ConfigPath: "custom.json", Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, "from-custom", cfg.StoreDir)
}

func Test_Load_CLIOverride_WinsOverEverything(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"store_dir": "from-file"}`), 0o644))

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, StoreDirOverride: "from-cli", Env: map[string]string{}})
	require.NoError(t, err)
	require.Equal(t, "from-cli", cfg.StoreDir)
}

func Test_Load_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{not json`), 0o644))

	_, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.ErrorIs(t, err, config.ErrConfigInvalid)
}

func Test_Load_RejectsExplicitlyEmptyStoreDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"store_dir": ""}`), 0o644))

	_, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.ErrorIs(t, err, config.ErrStoreDirEmpty)
}

func Test_Load_GlobalConfig_UsesXDGConfigHome(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "rv"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "rv", "config.json"), []byte(`{"store_dir": "global-store"}`), 0o644))

	dir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{"XDG_CONFIG_HOME": xdg}})
	require.NoError(t, err)
	require.Equal(t, "global-store", cfg.StoreDir)
	require.Equal(t, filepath.Join(xdg, "rv", "config.json"), cfg.Sources.Global)
}

func Test_Load_ProjectConfig_OverridesGlobalConfig(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "rv"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "rv", "config.json"), []byte(`{"store_dir": "global-store"}`), 0o644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`{"store_dir": "project-store"}`), 0o644))

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{"XDG_CONFIG_HOME": xdg}})
	require.NoError(t, err)
	require.Equal(t, "project-store", cfg.StoreDir)
}

func Test_Format_ReturnsIndentedJSON(t *testing.T) {
	t.Parallel()

	out, err := config.Format(config.Config{StoreDir: ".revtrail"})
	require.NoError(t, err)
	require.Contains(t, out, `"store_dir": ".revtrail"`)
}
