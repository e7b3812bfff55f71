package movie

import (
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts sequel numbers from titles (e.g., "2", "3")
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence represents the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MatchResult is the best candidate for a title.
type MatchResult struct {
	Title      string
	Score      float64 // Jaro-Winkler similarity (0.0-1.0)
	Confidence MatchConfidence
}

// MatchTitle finds the candidate most similar to title.
// Jaro-Winkler favors shared prefixes, which suits movie titles; sequel
// numbers that agree earn a bonus and ones that disagree a penalty.
func MatchTitle(title string, candidates []string) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{Confidence: ConfidenceNone}
	}

	cleaned := CleanTitle(title)
	numbers := numberRegex.FindAllString(cleaned, -1)

	var best MatchResult
	for _, candidate := range candidates {
		cleanedCandidate := CleanTitle(candidate)
		score := float64(edlib.JaroWinklerSimilarity(cleaned, cleanedCandidate))
		score = adjustScoreForNumbers(score, numbers, numberRegex.FindAllString(cleanedCandidate, -1))
		if score > best.Score {
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best.Confidence = ConfidenceNone
		best.Title = ""
	}
	return best
}

func adjustScoreForNumbers(score float64, want, got []string) float64 {
	if len(want) == 0 {
		return score
	}
	if len(got) == 0 {
		return score * 0.85
	}
	for _, w := range want {
		for _, g := range got {
			if w == g {
				return min(score*1.05, 1.0)
			}
		}
	}
	return score * 0.90
}

// containsWord reports whether the cleaned query occurs inside the cleaned title.
func containsWord(title, query string) bool {
	q := CleanTitle(query)
	return q != "" && strings.Contains(CleanTitle(title), q)
}
