// -- cmd/root_test.go --
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Equal(t, "pandasuite", rootCmd.Name())
	assert.NotEmpty(t, rootCmd.Version)
}

func TestRunCommandFlags(t *testing.T) {
	runCmd := newRunCmd()

	for _, flag := range []string{"tags", "format", "concurrency", "paths", "headless", "target"} {
		require.NotNil(t, runCmd.Flags().Lookup(flag), "flag %s should be registered", flag)
	}

	format, err := runCmd.Flags().GetString("format")
	require.NoError(t, err)
	assert.Equal(t, "pretty", format)

	headless, err := runCmd.Flags().GetBool("headless")
	require.NoError(t, err)
	assert.True(t, headless)
}

func TestScenariosFailedError(t *testing.T) {
	err := &scenariosFailedError{status: 1}
	assert.Equal(t, "scenario failures detected", err.Error())
}
