// Package match scores candidate-to-job fit with a deterministic, fully
// explainable algorithm: four independent dimension scores combined by
// fixed weights into an overall score, a threshold-derived decision, and
// stable human-readable reasons. Same inputs always produce byte-identical
// output.
package match

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/jobradar/internal/job"
)

// Dimension names used in Result.DimensionScores and in reasons.
const (
	DimensionSkills    = "skills_overlap"
	DimensionTitle     = "title_alignment"
	DimensionLocation  = "location_alignment"
	DimensionSeniority = "seniority_alignment"
)

// Fixed dimension weights.
const (
	weightSkills    = 0.45
	weightTitle     = 0.25
	weightLocation  = 0.15
	weightSeniority = 0.15
)

// neutralScore is used when a dimension has insufficient candidate data,
// distinguishing "unknown" from "poor fit".
const neutralScore = 50.0

var (
	tokenRe      = regexp.MustCompile(`\b[a-zA-Z0-9+#]+\b`)
	acronymRe    = regexp.MustCompile(`\b[A-Z]{2,4}\b`)
	keywordKeep  = regexp.MustCompile(`[^\w+#\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// MatchJob matches a candidate profile against a job posting. The candidate
// is a loosely-typed map tolerant of missing keys; every recognized field
// has a neutral default when absent. The call is side-effect free.
func MatchJob(candidate map[string]any, posting *job.Posting) (*Result, error) {
	if posting == nil {
		return nil, fmt.Errorf("job posting is required")
	}

	candidateKW := normalizeKeywords(extractCandidateKeywords(candidate))
	jobKW := normalizeKeywords(extractJobKeywords(posting))

	matched := sortedIntersection(candidateKW, jobKW)
	missing := sortedDifference(jobKW, candidateKW)

	skills := skillsScore(candidateKW, jobKW)
	title := titleScore(candidate, posting)
	location := locationScore(candidate, posting)
	seniority := seniorityScore(candidate, posting)

	// The decision is derived from the already-rounded score so the two can
	// never disagree at a bucket boundary.
	overall := round2(skills*weightSkills + title*weightTitle + location*weightLocation + seniority*weightSeniority)
	decision := DecisionForScore(overall)

	dimensions := map[string]float64{
		DimensionSkills:    skills,
		DimensionTitle:     title,
		DimensionLocation:  location,
		DimensionSeniority: seniority,
	}

	return NewResult(Result{
		CandidateID:     extractCandidateID(candidate),
		JobFingerprint:  posting.Fingerprint(),
		OverallScore:    overall,
		Decision:        decision,
		DimensionScores: dimensions,
		Reasons:         buildReasons(skills, title, location, seniority, matched, missing),
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Meta: map[string]int{
			"candidate_keyword_count": len(candidateKW),
			"job_keyword_count":       len(jobKW),
			"overlap_count":           len(matched),
		},
	})
}

func extractCandidateID(candidate map[string]any) string {
	for _, key := range []string{"email", "full_name", "name"} {
		if v, ok := candidate[key]; ok && v != nil {
			if s := stringifyValue(v); s != "" {
				return s
			}
		}
	}
	return "unknown_candidate"
}

func extractCandidateKeywords(candidate map[string]any) map[string]struct{} {
	keywords := make(map[string]struct{})

	for _, skill := range toStringSlice(candidate["skills"]) {
		keywords[skill] = struct{}{}
	}

	switch years := candidate["skills_years"].(type) {
	case map[string]any:
		for skill := range years {
			keywords[skill] = struct{}{}
		}
	case map[string]float64:
		for skill := range years {
			keywords[skill] = struct{}{}
		}
	case map[string]int:
		for skill := range years {
			keywords[skill] = struct{}{}
		}
	}

	for _, title := range toStringSlice(candidate["desired_titles"]) {
		addAll(keywords, extractTokens(title))
	}
	for _, title := range toStringSlice(candidate["alternate_titles"]) {
		addAll(keywords, extractTokens(title))
	}

	if resume := stringifyValue(candidate["resume_text"]); resume != "" {
		addAll(keywords, extractTechnicalTerms(resume))
	}

	return keywords
}

func extractJobKeywords(posting *job.Posting) map[string]struct{} {
	keywords := extractTokens(posting.Title)
	for _, req := range posting.Requirements {
		keywords[req] = struct{}{}
	}
	addAll(keywords, extractTechnicalTerms(posting.Description))
	return keywords
}

// extractTokens splits text on non-alphanumeric boundaries, lowercases,
// filters stopwords and single characters.
func extractTokens(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}

// extractTechnicalTerms mines the fixed vocabulary via substring matching
// plus 2-4 letter uppercase acronyms.
func extractTechnicalTerms(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	lower := strings.ToLower(text)

	for _, keyword := range techVocabulary {
		if strings.Contains(lower, keyword) {
			terms[strings.ReplaceAll(keyword, " ", "")] = struct{}{}
		}
	}

	for _, acronym := range acronymRe.FindAllString(text, -1) {
		terms[strings.ToLower(acronym)] = struct{}{}
	}

	return terms
}

// normalizeKeywords lowercases, strips characters outside [\w+#], and
// collapses internal whitespace before set operations.
func normalizeKeywords(keywords map[string]struct{}) map[string]struct{} {
	normalized := make(map[string]struct{}, len(keywords))
	for kw := range keywords {
		kw = strings.ToLower(kw)
		kw = keywordKeep.ReplaceAllString(kw, "")
		kw = whitespaceRe.ReplaceAllString(kw, "")
		kw = strings.TrimSpace(kw)
		if kw != "" {
			normalized[kw] = struct{}{}
		}
	}
	return normalized
}

// skillsScore is the candidate/job keyword overlap ratio scaled to 0-100,
// with a capped bonus when the overlap exceeds the job's keyword count.
// A job with zero keywords scores 100.
func skillsScore(candidateKW, jobKW map[string]struct{}) float64 {
	if len(jobKW) == 0 {
		return 100.0
	}

	overlap := 0
	for kw := range candidateKW {
		if _, ok := jobKW[kw]; ok {
			overlap++
		}
	}

	ratio := float64(overlap) / float64(len(jobKW))
	if overlap > len(jobKW) {
		ratio = 1.0 + math.Min(0.2, float64(overlap-len(jobKW))/float64(len(jobKW))*0.2)
	}

	return round2(math.Min(100.0, ratio*100.0))
}

// titleScore is the best token-overlap ratio between the candidate's
// desired/alternate titles and the job title, lifted to at least 90 on a
// substring match in either direction. No stated titles is neutral.
func titleScore(candidate map[string]any, posting *job.Posting) float64 {
	titles := toStringSlice(candidate["desired_titles"])
	titles = append(titles, toStringSlice(candidate["alternate_titles"])...)
	if len(titles) == 0 {
		return neutralScore
	}

	jobTokens := extractTokens(posting.Title)

	maxOverlap := 0.0
	for _, title := range titles {
		tokens := extractTokens(title)
		if len(tokens) == 0 {
			continue
		}

		overlap := 0
		for tok := range tokens {
			if _, ok := jobTokens[tok]; ok {
				overlap++
			}
		}
		maxOverlap = math.Max(maxOverlap, float64(overlap)/float64(len(tokens)))
	}

	jobTitleLower := strings.ToLower(posting.Title)
	for _, title := range titles {
		titleLower := strings.ToLower(title)
		if strings.Contains(jobTitleLower, titleLower) || strings.Contains(titleLower, jobTitleLower) {
			maxOverlap = math.Max(maxOverlap, 0.9)
		}
	}

	return round2(maxOverlap * 100.0)
}

// locationScore is 100 for remote-ok candidates on remote jobs or on any
// substring match between a preferred location and the job location,
// neutral with no location preference, else 0.
func locationScore(candidate map[string]any, posting *job.Posting) float64 {
	remoteOK := coerceRemoteOK(candidate["remote_ok"])
	jobRemote := (posting.Remote != nil && *posting.Remote) ||
		strings.Contains(strings.ToLower(posting.Location), "remote")

	if remoteOK && jobRemote {
		return 100.0
	}

	preferred := toStringSlice(candidate["preferred_locations"])

	if jobRemote {
		for _, loc := range preferred {
			if strings.Contains(strings.ToLower(loc), "remote") {
				return 100.0
			}
		}
	}

	if len(preferred) == 0 {
		return neutralScore
	}

	jobLocation := strings.ToLower(posting.Location)
	for _, loc := range preferred {
		locLower := strings.ToLower(loc)
		if strings.Contains(jobLocation, locLower) || strings.Contains(locLower, jobLocation) {
			return 100.0
		}
	}

	return 0.0
}

// seniorityScore checks years of experience against fixed thresholds keyed
// by the seniority cues found in the job title. Unknown experience is
// neutral.
func seniorityScore(candidate map[string]any, posting *job.Posting) float64 {
	years, ok := coerceYears(candidate["years_experience"])
	if !ok {
		return neutralScore
	}

	titleLower := strings.ToLower(posting.Title)

	if containsAny(titleLower, juniorCues) {
		switch {
		case years <= 2:
			return 100.0
		case years <= 4:
			return 70.0
		default:
			return 40.0 // overqualified
		}
	}

	if containsAny(titleLower, seniorCues) {
		switch {
		case years >= 5:
			return 100.0
		case years >= 3:
			return 70.0
		default:
			return 30.0 // underqualified
		}
	}

	// No explicit level in the title: treat as mid-level.
	switch {
	case years >= 2 && years <= 7:
		return 100.0
	case years < 2:
		return 60.0
	default:
		return 80.0
	}
}

// buildReasons produces 1-3 deterministic reasons: the top one or two
// dimensions in fixed score-band language, a matched-skills summary, and a
// missing-keywords filler when room remains.
func buildReasons(skills, title, location, seniority float64, matched, missing []string) []string {
	dims := []struct {
		name  string
		score float64
	}{
		{DimensionSkills, skills},
		{DimensionTitle, title},
		{DimensionLocation, location},
		{DimensionSeniority, seniority},
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].score > dims[j].score })

	reasons := make([]string, 0, 4)

	top := dims[0]
	switch {
	case top.score >= 80:
		reasons = append(reasons, dimensionReason("Strong", top.name, top.score))
	case top.score >= 60:
		reasons = append(reasons, dimensionReason("Good", top.name, top.score))
	case top.score >= 40:
		reasons = append(reasons, dimensionReason("Moderate", top.name, top.score))
	default:
		reasons = append(reasons, dimensionReason("Weak", top.name, top.score))
	}

	second := dims[1]
	switch {
	case second.score >= 70:
		reasons = append(reasons, dimensionReason("Strong", second.name, second.score))
	case second.score >= 50:
		reasons = append(reasons, dimensionReason("Adequate", second.name, second.score))
	default:
		reasons = append(reasons, dimensionReason("Limited", second.name, second.score))
	}

	if len(matched) > 0 {
		reasons = append(reasons, "Matched skills: "+strings.Join(truncateList(matched, 5), ", "))
	}

	if len(reasons) < 3 && len(missing) > 0 {
		reasons = append(reasons, "Missing: "+strings.Join(truncateList(missing, 3), ", "))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Insufficient information to evaluate match")
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}

func dimensionReason(band, dimension string, score float64) string {
	return fmt.Sprintf("%s %s: %.0f%%", band, strings.ReplaceAll(dimension, "_", " "), score)
}

func truncateList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func sortedIntersection(a, b map[string]struct{}) []string {
	out := make([]string, 0)
	for kw := range a {
		if _, ok := b[kw]; ok {
			out = append(out, kw)
		}
	}
	sort.Strings(out)
	return out
}

func sortedDifference(a, b map[string]struct{}) []string {
	out := make([]string, 0)
	for kw := range a {
		if _, ok := b[kw]; !ok {
			out = append(out, kw)
		}
	}
	sort.Strings(out)
	return out
}

func addAll(dst, src map[string]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}

func toStringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, stringifyValue(item))
		}
		return out
	default:
		return []string{}
	}
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func coerceRemoteOK(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		switch strings.ToLower(val) {
		case "true", "yes", "1":
			return true
		}
		return false
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}

func coerceYears(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case int:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
