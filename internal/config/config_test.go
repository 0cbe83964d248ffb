package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: Config{Port: "8080", GeminiModel: "gemini-2.5-flash", LogLevel: slog.LevelInfo},
		},
		{
			name: "everything set",
			env: map[string]string{
				"PORT":               "9090",
				"DATABASE_URL":       "postgres://cv@localhost/cv",
				"GEMINI_API_KEY":     "key",
				"GEMINI_MODEL":       "gemini-pro",
				"LOG_LEVEL":          "debug",
				"CORS_ALLOW_ORIGINS": "https://a.example, https://b.example,,",
			},
			want: Config{
				Port:             "9090",
				DatabaseURL:      "postgres://cv@localhost/cv",
				GeminiAPIKey:     "key",
				GeminiModel:      "gemini-pro",
				LogLevel:         slog.LevelDebug,
				CORSAllowOrigins: []string{"https://a.example", "https://b.example"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromEnv(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestConfig_CORS(t *testing.T) {
	assert.True(t, (&Config{}).AllowAllOrigins())
	assert.True(t, (&Config{CORSAllowOrigins: []string{"https://a.example", "*"}}).AllowAllOrigins())
	assert.False(t, (&Config{CORSAllowOrigins: []string{"https://a.example"}}).AllowAllOrigins())
	assert.Equal(t, ":8080", (&Config{Port: "8080"}).Addr())
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CVPDF_TEST_ONLY=1\nGEMINI_MODEL=from-file\n"), 0o644))
	t.Setenv("GEMINI_MODEL", "from-env")
	t.Cleanup(func() { os.Unsetenv("CVPDF_TEST_ONLY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GeminiModel)
	assert.Equal(t, "1", os.Getenv("CVPDF_TEST_ONLY"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
