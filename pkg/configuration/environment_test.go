package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfiguration_Defaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.load(nil))

	require.Equal(t, "itdesk", c.Database.Name)
	require.Equal(t, ":8080", c.ServerAddress)
	require.Equal(t, "it.request", c.FolioNamespace)
	require.Contains(t, c.Database.ConnectionString(), "dbname=itdesk")
}

func TestConfiguration_EnvOverrides(t *testing.T) {
	t.Setenv("DB_NAME", "itdesk_test")
	t.Setenv("LOG_LEVEL", "debug")

	c := &Configuration{}
	require.NoError(t, c.load(nil))

	require.Equal(t, "itdesk_test", c.Database.Name)
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, "debug", c.Logger().GetLevel().String())
}

func TestLoadEnv_MissingFilesIgnored(t *testing.T) {
	n, err := LoadEnv([]string{"does-not-exist.env"})
	require.NoError(t, err)
	require.Zero(t, n)
}
