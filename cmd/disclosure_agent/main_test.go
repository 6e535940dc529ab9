package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, name string) bool {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func TestCommandsRegistered(t *testing.T) {
	assert.True(t, findCommand(t, "verify"))
	assert.True(t, findCommand(t, "check"))
	assert.True(t, findCommand(t, "serve"))
}

func TestVerifyCmd_RequiredFlags(t *testing.T) {
	for _, name := range []string{"evidence", "target"} {
		flag := verifyCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Contains(t, flag.Annotations, cobra.BashCompOneRequiredFlag, name)
	}
}

func TestCheckCmd_UnknownType(t *testing.T) {
	checkType = "not-a-type"
	defer func() { checkType = "" }()

	err := runCheck(checkCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document type")
}
