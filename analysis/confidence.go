package analysis

const (
	baseConfidence  = 0.5
	generationBonus = 0.2
	overlayBonus    = 0.3
	fontChangeBonus = 0.1 // per change, up to maxFontChanges
	maxFontChanges  = 3
	flowGapBonus    = 0.1
)

// Score rates how strongly the signals support a real modification. It
// never decreases when a signal is added and is clamped to [0, 1].
func Score(generation int, overlay bool, fontChanges int, flowGap bool) float64 {
	score := baseConfidence
	if generation > 0 {
		score += generationBonus
	}
	if overlay {
		score += overlayBonus
	}
	if fontChanges > 0 {
		score += fontChangeBonus * float64(min(fontChanges, maxFontChanges))
	}
	if flowGap {
		score += flowGapBonus
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// meanConfidence averages the object scores, 0 for none
func meanConfidence(mods []ObjectModification) float64 {
	if len(mods) == 0 {
		return 0
	}
	var sum float64
	for _, m := range mods {
		sum += m.Confidence
	}
	return clamp(sum / float64(len(mods)))
}
