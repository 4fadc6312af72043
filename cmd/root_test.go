//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"serve", "evaluate", "pending", "respond", "status", "audit"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "claimcheck", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRespondCommand_RequiredFlags(t *testing.T) {
	flag := respondCmd.Flags().Lookup("user")
	require.NotNil(t, flag, "respond command should have --user flag")

	dataFlag := respondCmd.Flags().Lookup("data")
	require.NotNil(t, dataFlag, "respond command should have --data flag")
}

func TestAuditCommand_Flags(t *testing.T) {
	formatFlag := auditCmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "table", formatFlag.DefValue)

	claimFlag := auditCmd.Flags().Lookup("claim")
	require.NotNil(t, claimFlag)
}
