package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_MissingFilesAreSkipped(t *testing.T) {
	n, err := LoadEnv([]string{"definitely-not-here.env"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLoadEnv_LoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TS_TEST_SENTINEL=42\n"), 0o644))

	n, err := LoadEnv([]string{envFile})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "42", os.Getenv("TS_TEST_SENTINEL"))
	t.Cleanup(func() { _ = os.Unsetenv("TS_TEST_SENTINEL") })
}

func TestConfiguration_Defaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	assert.Equal(t, "timesheet", c.Database.Name)
	assert.Equal(t, "localhost", c.Database.Host)
	assert.Equal(t, 5*time.Second, c.StoreTimeout)
	assert.Contains(t, c.Database.Opts, "dbname=timesheet")
	assert.NotNil(t, c.Logger())
}

func TestConfiguration_LogLevelMapping(t *testing.T) {
	cases := map[string]logrus.Level{
		"silent": logrus.PanicLevel,
		"error":  logrus.ErrorLevel,
		"warn":   logrus.WarnLevel,
		"info":   logrus.InfoLevel,
		"debug":  logrus.DebugLevel,
		"bogus":  logrus.ErrorLevel,
		"":       logrus.ErrorLevel,
	}
	for in, want := range cases {
		c := &Configuration{LogLevel: in}
		assert.Equal(t, want, c.LogrusLogLevel(), "level %q", in)
	}
}
