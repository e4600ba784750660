package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
	assert.Equal(t, "imaging", cfg.Resize.Engine)
	assert.Equal(t, 82, cfg.Resize.Quality)
	assert.Equal(t, BackendLocal, cfg.Output.Backend)
	assert.Equal(t, "variants", cfg.Output.Dir)
	assert.Equal(t, "variants", cfg.Output.Minio.Bucket)
	assert.Empty(t, cfg.Catalog)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("IMAGE_VARIANTS_RESIZE_ENGINE", "xdraw")
	t.Setenv("IMAGE_VARIANTS_RESIZE_QUALITY", "60")
	t.Setenv("IMAGE_VARIANTS_OUTPUT_DIR", "/tmp/out")
	t.Setenv("IMAGE_VARIANTS_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "xdraw", cfg.Resize.Engine)
	assert.Equal(t, 60, cfg.Resize.Quality)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  format: json
resize:
  engine: nfnt
output:
  backend: minio
  minio:
    endpoint: localhost:9000
    prefix: uploads
    use_ssl: true
catalog: sizes.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "nfnt", cfg.Resize.Engine)
	assert.Equal(t, 82, cfg.Resize.Quality)
	assert.Equal(t, BackendMinio, cfg.Output.Backend)
	assert.Equal(t, "localhost:9000", cfg.Output.Minio.Endpoint)
	assert.Equal(t, "variants", cfg.Output.Minio.Bucket)
	assert.Equal(t, "uploads", cfg.Output.Minio.Prefix)
	assert.True(t, cfg.Output.Minio.UseSSL)
	assert.Equal(t, "sizes.yaml", cfg.Catalog)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "resize:\n  engine: nfnt\n")
	t.Setenv("IMAGE_VARIANTS_RESIZE_ENGINE", "bild")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bild", cfg.Resize.Engine)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown engine", "resize:\n  engine: lanczos3\n"},
		{"quality too high", "resize:\n  quality: 101\n"},
		{"unknown backend", "output:\n  backend: s3\n"},
		{"bad log level", "log:\n  level: verbose\n"},
		{"minio without endpoint", "output:\n  backend: minio\n"},
		{"malformed yaml", "resize: [engine\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_MinioRequirements(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Output.Backend = BackendMinio
	cfg.Output.Minio.Bucket = ""
	err = cfg.Validate()
	require.ErrorIs(t, err, errMissingMinio)
	assert.Contains(t, err.Error(), "output.minio.endpoint")
	assert.Contains(t, err.Error(), "output.minio.bucket")

	cfg.Output.Minio.Endpoint = "minio:9000"
	cfg.Output.Minio.Bucket = "media"
	assert.NoError(t, cfg.Validate())
}
