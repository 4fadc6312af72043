//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claimcheck/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Decision: config.DecisionConfig{
			ConfidenceLow:             0.5,
			ConfidenceMedium:          0.7,
			ConfidenceHigh:            0.85,
			ConflictSeverityThreshold: 0.6,
			TimeoutLowSecs:            3600,
			TimeoutMediumSecs:         1800,
			TimeoutHighSecs:           900,
			TimeoutCriticalSecs:       300,
		},
		Audit: config.AuditConfig{Driver: "memory"},
	}
}

func writeFixture(t *testing.T, payload map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestEvaluateCmd_CreatesRequest(t *testing.T) {
	cfg = testConfig()
	evaluateCmd.SetContext(context.Background())
	defer evaluateCmd.SetContext(nil)

	path := writeFixture(t, map[string]any{
		"claim": map[string]string{"claim_id": "claim-1", "content": "Disputed claim."},
		"evidence": []map[string]any{
			{"source": "archive.org", "claim": "claim-1", "verdict": "true", "confidence": 0.9},
			{"source": "example.com", "claim": "claim-1", "verdict": "false", "confidence": 0.85},
		},
	})

	var buf bytes.Buffer
	evaluateCmd.SetOut(&buf)

	err := evaluateCmd.RunE(evaluateCmd, []string{path})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "clarification_requested", out["status"])
	assert.Equal(t, "claim-1", out["claim_id"])
	assert.Contains(t, out, "request")
	assert.Contains(t, out, "prompt")
}

func TestEvaluateCmd_NoClarificationNeeded(t *testing.T) {
	cfg = testConfig()
	evaluateCmd.SetContext(context.Background())
	defer evaluateCmd.SetContext(nil)

	path := writeFixture(t, map[string]any{
		"claim": map[string]string{"claim_id": "claim-2", "content": "Well supported."},
		"confidence_metrics": map[string]float64{
			"overall_confidence":    0.9,
			"source_reliability":    0.9,
			"fact_verification":     0.9,
			"temporal_consistency":  0.9,
			"cross_reference_score": 0.9,
			"methodology_score":     0.9,
		},
	})

	var buf bytes.Buffer
	evaluateCmd.SetOut(&buf)

	err := evaluateCmd.RunE(evaluateCmd, []string{path})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "no_clarification_needed", out["status"])
}

func TestEvaluateCmd_RequiresClaimID(t *testing.T) {
	cfg = testConfig()
	evaluateCmd.SetContext(context.Background())
	defer evaluateCmd.SetContext(nil)

	path := writeFixture(t, map[string]any{
		"claim": map[string]string{"content": "missing id"},
	})

	err := evaluateCmd.RunE(evaluateCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claim_id is required")
}

func TestEvaluateCmd_MissingFile(t *testing.T) {
	cfg = testConfig()
	evaluateCmd.SetContext(context.Background())
	defer evaluateCmd.SetContext(nil)

	err := evaluateCmd.RunE(evaluateCmd, []string{filepath.Join(t.TempDir(), "absent.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}
