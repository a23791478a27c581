package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Empty(t, c.Token)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	err := os.WriteFile(file, []byte(`{"server_base_url":"https://portal.example","token":"tok"}`), 0o600)
	require.NoError(t, err)

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"docclient", "-c", file}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "https://portal.example", c.ServerBaseURL)
	assert.Equal(t, "tok", c.Token)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"docclient", "-s", "https://portal.example", "-t", "tok", "-action", "generate"}

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, "https://portal.example", c.ServerBaseURL)
	assert.Equal(t, "tok", c.Token)
}
