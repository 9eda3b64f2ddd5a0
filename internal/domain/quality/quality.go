// Package quality scores publish readiness from tempo fit and metadata
// completeness. All outputs are clamped to [0,100] at construction.
package quality

import (
	"math"
)

// Tempo and metadata scoring constants. 120 BPM is the tempo centerpoint;
// deviation is penalized symmetrically up to a 60-point ceiling so the bpm
// term alone cannot drive the score to zero.
const (
	bpmCenter        = 120
	bpmPenaltyRate   = 0.8
	bpmPenaltyCeil   = 60
	bpmUnknownScore  = 50
	titleCap         = 25
	titleRate        = 1.4
	descCap          = 20
	descRate         = 0.25
	sourceCap        = 20
	sourceRate       = 8
	coverBonus       = 15
	bpmShare         = 0.55
	metaShare        = 0.45
	readinessAudio   = 0.6
	readinessTitle   = 0.25
	readinessDesc    = 0.15
	readinessDescCap = 15
)

// Input carries the metadata fields the scorer reads. BPM of 0 means the
// creator did not declare a tempo.
type Input struct {
	BPM              int
	TitleLength      int
	DescLength       int
	SourceTrackCount int
	HasCover         bool
}

// Score is the derived publish-readiness pair.
type Score struct {
	AudioQuality   float64
	ViralReadiness float64
}

// Evaluate computes both readiness scores for one item.
func Evaluate(in Input) Score {
	bpmScore := float64(bpmUnknownScore)
	if in.BPM > 0 {
		penalty := math.Min(bpmPenaltyCeil, math.Abs(float64(in.BPM-bpmCenter))*bpmPenaltyRate)
		bpmScore = 100 - penalty
	}

	metaScore := math.Min(titleCap, float64(in.TitleLength)*titleRate) +
		math.Min(descCap, float64(in.DescLength)*descRate) +
		math.Min(sourceCap, float64(in.SourceTrackCount)*sourceRate)
	if in.HasCover {
		metaScore += coverBonus
	}

	audio := clamp100(bpmScore*bpmShare + metaScore*metaShare)
	readiness := clamp100(audio*readinessAudio +
		math.Min(titleCap, float64(in.TitleLength))*readinessTitle +
		math.Min(readinessDescCap, float64(in.DescLength)/10)*readinessDesc)

	return Score{AudioQuality: audio, ViralReadiness: readiness}
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
