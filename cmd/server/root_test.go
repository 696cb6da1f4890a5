package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	require.NotNil(t, root.RunE, "bare invocation serves")

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])

	migrate, _, err := root.Find([]string{"migrate", "status"})
	require.NoError(t, err)
	assert.Equal(t, "status", migrate.Name())
}

func TestServeCommand_RequiresSecret(t *testing.T) {
	t.Setenv("FOLIO_JWT_SECRET", "")

	root := newRootCmd()
	root.SetArgs([]string{"serve", "--skip-migrations"})
	root.SilenceErrors = true

	err := root.Execute()
	assert.ErrorContains(t, err, "FOLIO_JWT_SECRET")
}
