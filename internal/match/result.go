package match

import "fmt"

// Decision is the categorical fit bucket derived from the overall score via
// fixed, non-overlapping thresholds.
type Decision string

const (
	DecisionStrongFit   Decision = "strong_fit"
	DecisionPossibleFit Decision = "possible_fit"
	DecisionWeakFit     Decision = "weak_fit"
	DecisionReject      Decision = "reject"
)

// DecisionForScore maps an overall score to its bucket: strong_fit at 80
// and above, possible_fit from 65, weak_fit from 45, reject below.
func DecisionForScore(score float64) Decision {
	switch {
	case score >= 80:
		return DecisionStrongFit
	case score >= 65:
		return DecisionPossibleFit
	case score >= 45:
		return DecisionWeakFit
	default:
		return DecisionReject
	}
}

// InvariantViolationError reports a Result constructed with an inconsistent
// score/decision/bounds combination. It signals a bug in the matcher's own
// arithmetic, never a recoverable input-data condition; callers must treat
// it as fatal and never branch on or retry it.
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "match result invariant violation: " + e.Detail
}

// Result is an immutable, invariant-validated scoring outcome for one
// (candidate, job) pair. Construct via NewResult only; a new match requires
// a new instance.
type Result struct {
	CandidateID     string
	JobFingerprint  string
	OverallScore    float64
	Decision        Decision
	DimensionScores map[string]float64
	Reasons         []string
	MatchedKeywords []string
	MissingKeywords []string
	Meta            map[string]int
}

// NewResult validates every invariant at construction time and never
// relaxes them: all scores in [0,100], a known decision, and a decision
// that exactly matches the overall score's bucket. Any violation yields an
// InvariantViolationError.
func NewResult(r Result) (*Result, error) {
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return nil, &InvariantViolationError{
			Detail: fmt.Sprintf("overall_score must be 0-100, got %v", r.OverallScore),
		}
	}

	switch r.Decision {
	case DecisionStrongFit, DecisionPossibleFit, DecisionWeakFit, DecisionReject:
	default:
		return nil, &InvariantViolationError{
			Detail: fmt.Sprintf("unknown decision %q", r.Decision),
		}
	}

	for dim, score := range r.DimensionScores {
		if score < 0 || score > 100 {
			return nil, &InvariantViolationError{
				Detail: fmt.Sprintf("dimension score %q must be 0-100, got %v", dim, score),
			}
		}
	}

	if expected := DecisionForScore(r.OverallScore); r.Decision != expected {
		return nil, &InvariantViolationError{
			Detail: fmt.Sprintf("decision %q does not match score %v (expected %q)", r.Decision, r.OverallScore, expected),
		}
	}

	out := r
	out.DimensionScores = copyFloatMap(r.DimensionScores)
	out.Reasons = append([]string{}, r.Reasons...)
	out.MatchedKeywords = append([]string{}, r.MatchedKeywords...)
	out.MissingKeywords = append([]string{}, r.MissingKeywords...)
	out.Meta = copyIntMap(r.Meta)

	return &out, nil
}

// ToMap converts the result to a JSON-serializable map.
func (r *Result) ToMap() map[string]any {
	return map[string]any{
		"candidate_id":     r.CandidateID,
		"job_fingerprint":  r.JobFingerprint,
		"overall_score":    r.OverallScore,
		"decision":         string(r.Decision),
		"dimension_scores": copyFloatMap(r.DimensionScores),
		"reasons":          append([]string{}, r.Reasons...),
		"matched_keywords": append([]string{}, r.MatchedKeywords...),
		"missing_keywords": append([]string{}, r.MissingKeywords...),
		"meta":             copyIntMap(r.Meta),
	}
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
