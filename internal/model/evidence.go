package model

// EvidenceRecord is a single externally-sourced statement bearing on a
// claim's truth. Records arrive from the retrieval pipeline as loosely
// structured JSON; every field is optional. The same source may appear more
// than once with differing credibility assessments — that is itself a
// conflict signal, so no uniqueness is enforced.
type EvidenceRecord struct {
	Source           string         `json:"source,omitempty"`
	SourceURL        string         `json:"source_url,omitempty"`
	Claim            string         `json:"claim,omitempty"`
	Verdict          string         `json:"verdict,omitempty"`
	Confidence       float64        `json:"confidence,omitempty"`
	CredibilityScore *float64       `json:"credibility_score,omitempty"`
	Facts            map[string]any `json:"facts,omitempty"`
	Date             string         `json:"date,omitempty"`
	Timeline         *Timeline      `json:"timeline,omitempty"`
	Verified         bool           `json:"verified,omitempty"`
}

// Timeline bounds the period an evidence item covers.
type Timeline struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// SourceKey returns the best available identifier for the evidence source,
// preferring the URL over the display name. Returns "unknown" when neither
// is set.
func (e EvidenceRecord) SourceKey() string {
	if e.SourceURL != "" {
		return e.SourceURL
	}
	if e.Source != "" {
		return e.Source
	}
	return "unknown"
}

// ClaimKey returns the claim/topic grouping key, or "unknown" when the
// record carries none. Unrelated evidence without a key therefore collides
// in one bucket; the retrieval pipeline is expected to tag records.
func (e EvidenceRecord) ClaimKey() string {
	if e.Claim == "" {
		return "unknown"
	}
	return e.Claim
}

// NumericFacts returns the numeric-valued named facts. Non-numeric fact
// values are excluded rather than rejected.
func (e EvidenceRecord) NumericFacts() map[string]float64 {
	if len(e.Facts) == 0 {
		return nil
	}
	out := make(map[string]float64)
	for key, raw := range e.Facts {
		switch v := raw.(type) {
		case float64:
			out[key] = v
		case float32:
			out[key] = float64(v)
		case int:
			out[key] = float64(v)
		case int64:
			out[key] = float64(v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// HasTemporal reports whether the record carries any temporal marker.
func (e EvidenceRecord) HasTemporal() bool {
	return e.Date != "" || e.Timeline != nil
}
