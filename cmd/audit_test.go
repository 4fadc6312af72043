//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditpkg "github.com/sells-group/claimcheck/internal/audit"
	"github.com/sells-group/claimcheck/internal/config"
	"github.com/sells-group/claimcheck/internal/model"
)

func TestAuditCmd_ListsSQLiteEvents(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	cfg = testConfig()
	cfg.Audit = config.AuditConfig{Driver: "sqlite", SQLitePath: dbPath}

	// Seed an event through a separate sink handle; the command opens its
	// own connection to the same file.
	sink, err := auditpkg.NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, sink.Migrate(context.Background()))
	_, err = sink.LogEvent(context.Background(), auditpkg.Event{
		Agent:   model.AgentOrchestrator,
		Type:    "clarification_requested",
		ClaimID: "claim-1",
		Data:    map[string]any{"request_id": "req-1"},
	})
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	auditCmd.SetContext(context.Background())
	defer auditCmd.SetContext(nil)
	auditClaim = "claim-1"
	auditFormat = "json"
	defer func() {
		auditClaim = ""
		auditFormat = "table"
	}()

	var buf bytes.Buffer
	auditCmd.SetOut(&buf)

	require.NoError(t, auditCmd.RunE(auditCmd, nil))

	var events []auditpkg.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "clarification_requested", events[0].Type)
	assert.Equal(t, "claim-1", events[0].ClaimID)
}

func TestAuditCmd_RejectsUnknownFormat(t *testing.T) {
	cfg = testConfig()
	auditCmd.SetContext(context.Background())
	defer auditCmd.SetContext(nil)
	auditFormat = "csv"
	defer func() { auditFormat = "table" }()

	err := auditCmd.RunE(auditCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestInitSink_UnknownDriver(t *testing.T) {
	cfg = testConfig()
	cfg.Audit.Driver = "cassandra"

	_, err := initSink(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown audit driver")
}

func TestInitSink_DefaultsToMemory(t *testing.T) {
	cfg = testConfig()
	cfg.Audit.Driver = ""

	sink, err := initSink(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &auditpkg.MemorySink{}, sink)
}
