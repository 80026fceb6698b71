package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberforage/aprofile-scavenger/pkg/models"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scavenger.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_NominalMediaClass(t *testing.T) {
	path := writeTempConfig(t, "[network]\nspeed = LAN100\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int(models.LAN100), cfg.NetSpeed)
}

func TestLoad_RawByteSpeed(t *testing.T) {
	path := writeTempConfig(t, "[network]\nspeed = 123456\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 123456, cfg.NetSpeed)
}

func TestLoad_CPUSection(t *testing.T) {
	path := writeTempConfig(t, "[cpu]\nstrength = 2.5\ncores = 4\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.CPUStrength)
	assert.Equal(t, 4, cfg.CPUCores)
}

func TestLoad_CommentsAndBlankLinesIgnored(t *testing.T) {
	path := writeTempConfig(t, "# a comment\n\n[cpu]\n; also a comment\nstrength = 1.5\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.CPUStrength)
}

func TestLoad_UnknownSectionErrors(t *testing.T) {
	path := writeTempConfig(t, "[bogus]\nfoo = bar\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnknownOptionErrors(t *testing.T) {
	path := writeTempConfig(t, "[network]\nfoo = bar\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedLineErrors(t *testing.T) {
	path := writeTempConfig(t, "[network]\nnotakeyvalue\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnknownMediaNameErrors(t *testing.T) {
	path := writeTempConfig(t, "[network]\nspeed = not-a-class\n")
	_, err := Load(path)
	assert.Error(t, err)
}
