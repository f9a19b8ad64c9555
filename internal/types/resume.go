package types

import (
	"encoding/json"
	"math"
)

// Sentiment values produced by the resume analyzer.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Score is an integer score in [0,100]. The backend sometimes emits
// fractional values; they are rounded on decode.
type Score int

// UnmarshalJSON accepts any JSON number and rounds it to the nearest integer.
func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Score(math.Round(f))
	return nil
}

// ResumeAnalysisResult is returned by POST /analyze_resume.
type ResumeAnalysisResult struct {
	ATSScore         Score    `json:"ats_score"`
	ReadabilityScore float64  `json:"readability_score"`
	Sentiment        string   `json:"sentiment"`
	Skills           []string `json:"skills"`
	BiasDetected     []string `json:"bias_detected"`
	ImprovementTips  []string `json:"improvement_tips"`
}

// DisplaySentiment maps the stored sentiment to one of the three known
// values. Unknown values display as neutral; the stored value is unchanged.
func (r *ResumeAnalysisResult) DisplaySentiment() string {
	switch r.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return r.Sentiment
	default:
		return SentimentNeutral
	}
}

// DisplayReadability rounds the readability score for display.
func (r *ResumeAnalysisResult) DisplayReadability() int {
	return int(math.Round(r.ReadabilityScore))
}

// ScoreBand labels an ATS or readability score.
func ScoreBand(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "needs work"
	}
}
