package transcription

import (
	"github.com/jonathan/call-scorer/internal/types"
	"github.com/sirupsen/logrus"
)

// Quality thresholds
const (
	LowOverallConfidence = 0.85
	LowWordConfidence    = 0.7
)

// QualityReport summarizes recognizer confidence for a finished job
type QualityReport struct {
	Utterances         int          `json:"utterances"`
	OverallConfidence  *float64     `json:"overallConfidence,omitempty"`
	AvgWordConfidence  float64      `json:"avgWordConfidence"`
	LowConfidenceWords []types.Word `json:"lowConfidenceWords,omitempty"`
}

// Assess builds a quality report from a completed job
func Assess(job *types.TranscriptionJob) QualityReport {
	report := QualityReport{
		Utterances:        len(job.Utterances),
		OverallConfidence: job.Confidence,
	}

	words := job.Words
	if len(words) == 0 {
		for _, u := range job.Utterances {
			words = append(words, u.Words...)
		}
	}
	if len(words) == 0 {
		return report
	}

	var sum float64
	for _, w := range words {
		sum += w.Confidence
		if w.Confidence < LowWordConfidence {
			report.LowConfidenceWords = append(report.LowConfidenceWords, w)
		}
	}
	report.AvgWordConfidence = sum / float64(len(words))
	return report
}

// LowOverall reports whether the job-level confidence is under LowOverallConfidence
func (r QualityReport) LowOverall() bool {
	return r.OverallConfidence != nil && *r.OverallConfidence < LowOverallConfidence
}

// Log writes the report at info level with warnings for low confidence
func (r QualityReport) Log(log logrus.FieldLogger) {
	fields := logrus.Fields{
		"utterances":           r.Utterances,
		"avg_word_confidence":  r.AvgWordConfidence,
		"low_confidence_words": len(r.LowConfidenceWords),
	}
	if r.OverallConfidence != nil {
		fields["confidence"] = *r.OverallConfidence
	}
	log.WithFields(fields).Info("transcription completed")

	if r.LowOverall() {
		log.WithField("confidence", *r.OverallConfidence).Warn("low transcription confidence; consider improving audio quality")
	}
	if len(r.LowConfidenceWords) > 0 {
		log.WithField("count", len(r.LowConfidenceWords)).Warn("words with low confidence detected; consider manual review")
	}
}
