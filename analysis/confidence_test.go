package analysis

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		generation  int
		overlay     bool
		fontChanges int
		flowGap     bool
		want        float64
	}{
		{"base", 0, false, 0, false, 0.5},
		{"generation", 2, false, 0, false, 0.7},
		{"overlay", 0, true, 0, false, 0.8},
		{"one font change", 0, false, 1, false, 0.6},
		{"font changes capped", 0, false, 7, false, 0.8},
		{"flow gap", 0, false, 0, true, 0.6},
		{"everything clamps", 1, true, 2, true, 1.0},
		{"negative font changes ignored", 0, false, -4, false, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.generation, tt.overlay, tt.fontChanges, tt.flowGap)
			if !approx(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestScoreMonotonic adds each signal to every combination of the others
func TestScoreMonotonic(t *testing.T) {
	for gen := 0; gen <= 1; gen++ {
		for fc := 0; fc <= 4; fc++ {
			for _, overlay := range []bool{false, true} {
				for _, gap := range []bool{false, true} {
					base := Score(gen, overlay, fc, gap)
					if base < 0 || base > 1 {
						t.Fatalf("Score(%d, %v, %d, %v) = %v out of range", gen, overlay, fc, gap, base)
					}
					if Score(gen, true, fc, gap) < base {
						t.Errorf("adding an overlay lowered the score at (%d, %d, %v)", gen, fc, gap)
					}
					if Score(gen, overlay, fc+1, gap) < base {
						t.Errorf("adding a font change lowered the score at (%d, %v, %d, %v)", gen, overlay, fc, gap)
					}
					if Score(gen, overlay, fc, true) < base {
						t.Errorf("adding a flow gap lowered the score at (%d, %v, %d)", gen, overlay, fc)
					}
					if Score(gen+1, overlay, fc, gap) < base {
						t.Errorf("raising the generation lowered the score at (%v, %d, %v)", overlay, fc, gap)
					}
				}
			}
		}
	}
}

func TestMeanConfidence(t *testing.T) {
	if got := meanConfidence(nil); got != 0 {
		t.Errorf("meanConfidence(nil) = %v", got)
	}
	mods := []ObjectModification{{Confidence: 0.5}, {Confidence: 1.0}, {Confidence: 0.6}}
	if got := meanConfidence(mods); !approx(got, 0.7) {
		t.Errorf("meanConfidence() = %v, want 0.7", got)
	}
}
