// Package conflict scans evidence sets and agent results for the five
// conflict categories that can trigger human clarification.
package conflict

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/sells-group/claimcheck/internal/model"
)

// factDeviationRatio flags a numeric fact when its sample standard
// deviation exceeds this fraction of the mean.
const factDeviationRatio = 0.2

// credibilityDisputeRange flags a source when its credibility assessments
// spread wider than this.
const credibilityDisputeRange = 0.3

// Fixed severities for detectors without a graded signal.
const (
	temporalConflictSeverity    = 0.6
	methodologyConflictSeverity = 0.8
)

// recognizedVerdicts is the verdict vocabulary that makes a label
// disagreement an actual contradiction rather than free-text noise.
var recognizedVerdicts = map[string]bool{
	"true":     true,
	"false":    true,
	"verified": true,
	"disputed": true,
}

// contradictoryPairs are verdict label pairs that mark agent conclusions
// as mutually exclusive.
var contradictoryPairs = [][2]string{
	{"true", "false"},
	{"verified", "disputed"},
	{"confirmed", "denied"},
	{"valid", "invalid"},
}

var folder = cases.Fold()

// Detector finds conflicts in evidence and agent results. All five
// detectors run unconditionally; their outputs are concatenated and no
// detector mutates its input.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs every detector over the inputs and returns the combined
// conflict list.
func (d *Detector) Detect(evidence []model.EvidenceRecord, results map[model.AgentType]model.AgentResult) []model.EvidenceConflict {
	var conflicts []model.EvidenceConflict
	conflicts = append(conflicts, d.sourceContradictions(evidence)...)
	conflicts = append(conflicts, d.factConflicts(evidence)...)
	conflicts = append(conflicts, d.credibilityDisputes(evidence)...)
	conflicts = append(conflicts, d.temporalInconsistencies(evidence)...)
	conflicts = append(conflicts, d.methodologyConflicts(results)...)

	if len(conflicts) > 0 {
		zap.L().Debug("conflict: detection complete",
			zap.Int("evidence_count", len(evidence)),
			zap.Int("conflict_count", len(conflicts)),
		)
	}
	return conflicts
}

// sourceContradictions groups evidence by claim key and flags groups whose
// verdict labels disagree within the recognized vocabulary. Evidence
// without a claim key lands in one shared "unknown" bucket, so untagged
// unrelated records can collide; the retrieval pipeline is expected to tag.
func (d *Detector) sourceContradictions(evidence []model.EvidenceRecord) []model.EvidenceConflict {
	groups := make(map[string][]model.EvidenceRecord)
	for _, e := range evidence {
		key := e.ClaimKey()
		groups[key] = append(groups[key], e)
	}

	var conflicts []model.EvidenceConflict
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		unique := make(map[string]bool)
		anyRecognized := false
		for _, e := range group {
			if e.Verdict == "" {
				continue
			}
			v := folder.String(e.Verdict)
			unique[v] = true
			if recognizedVerdicts[v] {
				anyRecognized = true
			}
		}
		if len(unique) < 2 || !anyRecognized {
			continue
		}

		sources := make([]model.ConflictSource, 0, len(group))
		var confidenceSum float64
		for _, e := range group {
			sources = append(sources, model.ConflictSource{
				Source:     e.SourceKey(),
				Verdict:    e.Verdict,
				Confidence: e.Confidence,
			})
			confidenceSum += e.Confidence
		}
		// Higher confidence in contradicting sources means a worse conflict.
		severity := math.Min(confidenceSum/float64(len(group))*1.2, 1.0)

		conflicts = append(conflicts, newConflict(
			model.ConflictContradictorySources,
			sources,
			fmt.Sprintf("Sources provide contradictory verdicts for claim: %s", key),
			severity,
		))
	}
	return conflicts
}

// factConflicts compares numeric facts shared across evidence and flags
// keys whose values spread beyond the deviation ratio.
func (d *Detector) factConflicts(evidence []model.EvidenceRecord) []model.EvidenceConflict {
	type factEntry struct {
		value  float64
		source string
	}
	byKey := make(map[string][]factEntry)
	for _, e := range evidence {
		for key, value := range e.NumericFacts() {
			byKey[key] = append(byKey[key], factEntry{value: value, source: e.SourceKey()})
		}
	}

	var conflicts []model.EvidenceConflict
	for _, key := range sortedKeys(byKey) {
		entries := byKey[key]
		if len(entries) < 2 {
			continue
		}

		values := make([]float64, len(entries))
		for i, e := range entries {
			values[i] = e.value
		}
		mean := meanOf(values)
		stddev := sampleStddev(values, mean)
		if stddev <= mean*factDeviationRatio {
			continue
		}

		severity := 1.0
		if mean != 0 {
			severity = math.Min(stddev/mean, 1.0)
		}

		sources := make([]model.ConflictSource, len(entries))
		for i, e := range entries {
			sources[i] = model.ConflictSource{
				Source:  e.source,
				FactKey: key,
				Value:   e.value,
			}
		}

		conflicts = append(conflicts, newConflict(
			model.ConflictConflictingFacts,
			sources,
			fmt.Sprintf("Significant discrepancy in numerical fact %q: %v", key, values),
			severity,
		))
	}
	return conflicts
}

// credibilityDisputes flags sources whose repeated credibility assessments
// disagree by more than the dispute range.
func (d *Detector) credibilityDisputes(evidence []model.EvidenceRecord) []model.EvidenceConflict {
	bySource := make(map[string][]model.EvidenceRecord)
	for _, e := range evidence {
		if e.CredibilityScore == nil {
			continue
		}
		key := e.SourceKey()
		bySource[key] = append(bySource[key], e)
	}

	var conflicts []model.EvidenceConflict
	for _, key := range sortedKeys(bySource) {
		assessments := bySource[key]
		if len(assessments) < 2 {
			continue
		}

		lo, hi := *assessments[0].CredibilityScore, *assessments[0].CredibilityScore
		for _, a := range assessments[1:] {
			score := *a.CredibilityScore
			if score < lo {
				lo = score
			}
			if score > hi {
				hi = score
			}
		}
		spread := hi - lo
		if spread <= credibilityDisputeRange {
			continue
		}

		sources := make([]model.ConflictSource, len(assessments))
		for i, a := range assessments {
			sources[i] = model.ConflictSource{
				Source:      key,
				Verdict:     a.Verdict,
				Credibility: *a.CredibilityScore,
			}
		}

		conflicts = append(conflicts, newConflict(
			model.ConflictCredibilityDispute,
			sources,
			fmt.Sprintf("Credibility scores for %q vary significantly (spread %.2f)", key, spread),
			math.Min(spread, 1.0),
		))
	}
	return conflicts
}

// temporalInconsistencies flags duplicate literal dates among evidence
// carrying temporal markers. This is duplicate detection, not interval
// overlap reasoning.
func (d *Detector) temporalInconsistencies(evidence []model.EvidenceRecord) []model.EvidenceConflict {
	var temporal []model.EvidenceRecord
	for _, e := range evidence {
		if e.HasTemporal() {
			temporal = append(temporal, e)
		}
	}
	if len(temporal) < 2 {
		return nil
	}

	var dates []string
	distinct := make(map[string]bool)
	for _, e := range temporal {
		if e.Date == "" {
			continue
		}
		dates = append(dates, e.Date)
		distinct[e.Date] = true
	}
	if len(distinct) == len(dates) {
		return nil
	}

	sources := make([]model.ConflictSource, len(temporal))
	for i, e := range temporal {
		sources[i] = model.ConflictSource{
			Source: e.SourceKey(),
			Date:   e.Date,
		}
	}

	return []model.EvidenceConflict{newConflict(
		model.ConflictTemporalInconsistency,
		sources,
		"Temporal inconsistencies detected in evidence timeline",
		temporalConflictSeverity,
	)}
}

// methodologyConflicts flags contradictory conclusions between successful
// agents.
func (d *Detector) methodologyConflicts(results map[model.AgentType]model.AgentResult) []model.EvidenceConflict {
	type agentVerdict struct {
		agent      model.AgentType
		verdict    string
		confidence float64
	}
	var verdicts []agentVerdict
	unique := make(map[string]bool)
	for _, agent := range sortedAgents(results) {
		r := results[agent]
		if !r.Success {
			continue
		}
		verdict, ok := r.Verdict()
		if !ok {
			continue
		}
		confidence := 0.5
		if r.Confidence != nil {
			confidence = *r.Confidence
		}
		verdicts = append(verdicts, agentVerdict{agent: agent, verdict: verdict, confidence: confidence})
		unique[folder.String(verdict)] = true
	}
	if len(unique) < 2 {
		return nil
	}

	contradictory := false
	for _, pair := range contradictoryPairs {
		if unique[pair[0]] && unique[pair[1]] {
			contradictory = true
			break
		}
	}
	if !contradictory {
		return nil
	}

	sources := make([]model.ConflictSource, len(verdicts))
	for i, v := range verdicts {
		sources[i] = model.ConflictSource{
			Agent:      v.agent,
			Verdict:    v.verdict,
			Confidence: v.confidence,
		}
	}

	return []model.EvidenceConflict{newConflict(
		model.ConflictMethodology,
		sources,
		"Different analysis methods reached contradictory conclusions",
		methodologyConflictSeverity,
	)}
}

func newConflict(kind model.ConflictType, sources []model.ConflictSource, description string, severity float64) model.EvidenceConflict {
	return model.EvidenceConflict{
		ID:                 uuid.New().String(),
		Type:               kind,
		Sources:            sources,
		Description:        description,
		Severity:           severity,
		DetectedAt:         time.Now().UTC(),
		ResolutionRequired: true,
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev is the n-1 denominator standard deviation.
func sampleStddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAgents(m map[model.AgentType]model.AgentResult) []model.AgentType {
	agents := make([]model.AgentType, 0, len(m))
	for a := range m {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	return agents
}
