// Package viralpack deterministically selects the weekly batch of
// promotable clips from a rights-gated pool.
package viralpack

import (
	"math"
	"strconv"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/rights"
)

// HookStructure names a clip-opening pattern used to diversify a batch.
type HookStructure string

// Hook structures, in rotation order.
const (
	ColdOpen   HookStructure = "cold_open"
	DropFirst  HookStructure = "drop_first"
	VocalTease HookStructure = "vocal_tease"
	BeatSwitch HookStructure = "beat_switch"
)

// Selection constants.
const (
	// MaxClips bounds the pack size; smaller pools cycle via modulo.
	MaxClips = 20

	confidenceBase    = 0.62
	confidenceBaseCap = 0.98
	confidenceCap     = 0.99
	likeDivisor       = 80000
	commentDivisor    = 30000

	shortClipSec = 15
	longClipSec  = 30
)

var structures = [...]HookStructure{ColdOpen, DropFirst, VocalTease, BeatSwitch}

var structureBoost = map[HookStructure]float64{
	DropFirst:  0.08,
	ColdOpen:   0.06,
	VocalTease: 0.04,
	BeatSwitch: 0.03,
}

// Clip is one promotable cut of a catalog item.
type Clip struct {
	ID            string        `json:"id"`
	ItemID        string        `json:"itemId"`
	Title         string        `json:"title"`
	CreatorName   string        `json:"creatorName"`
	Structure     HookStructure `json:"structure"`
	ClipStartSec  int           `json:"clipStartSec"`
	ClipLengthSec int           `json:"clipLengthSec"`
	Confidence    float64       `json:"confidence"`
	RightsSafe    bool          `json:"rightsSafe"`
	RightsScore   float64       `json:"rightsScore"`
}

// Pack is the weekly batch, keyed to the ISO week of its release.
type Pack struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"publishedAt"`
	PublishWeek string    `json:"publishWeek"`
	Day         string    `json:"day"`
	ClipCount   int       `json:"clipCount"`
	Clips       []Clip    `json:"clips"`
}

// Build generates up to MaxClips clips by cycling the gated pool. The
// result depends only on the pool and the week containing now; an empty
// pool yields an empty pack with the weekly envelope intact.
func Build(pool []rights.Candidate, now time.Time) Pack {
	release := model.WeekRelease(now)
	week := model.WeekLabel(now)

	clips := make([]Clip, 0, MaxClips)
	for i := 0; i < MaxClips; i++ {
		if len(pool) == 0 {
			break
		}
		entry := pool[i%len(pool)]
		structure := structures[i%len(structures)]

		length := shortClipSec
		if i%3 == 0 {
			length = longClipSec
		}

		offset := 12
		if i%2 == 0 {
			offset = 6
		}
		bpm := 0
		if entry.Item.BPM > 0 {
			bpm = entry.Item.BPM % 8
		}
		start := offset + bpm + (i%5)*2
		if start < 0 {
			start = 0
		}

		clips = append(clips, Clip{
			ID:            "pack-clip-" + strconv.Itoa(i+1),
			ItemID:        entry.Item.ID,
			Title:         entry.Item.Title,
			CreatorName:   entry.Item.CreatorName,
			Structure:     structure,
			ClipStartSec:  start,
			ClipLengthSec: length,
			Confidence:    confidence(entry.Item, structure),
			RightsSafe:    true,
			RightsScore:   entry.Assessment.Score,
		})
	}

	day := "Other"
	if now.Weekday() == time.Monday {
		day = "Monday"
	}

	return Pack{
		ID:          "viral-pack-" + week,
		PublishedAt: release,
		PublishWeek: week,
		Day:         day,
		ClipCount:   len(clips),
		Clips:       clips,
	}
}

func confidence(item model.CatalogItem, structure HookStructure) float64 {
	base := math.Min(confidenceBaseCap,
		confidenceBase+float64(item.LikeCount)/likeDivisor+float64(item.CommentCount)/commentDivisor)
	return math.Min(confidenceCap, round2(base+structureBoost[structure]))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
