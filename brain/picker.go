package brain

// Picker selects one choice from the scores of a thinker's choices,
// given in priority order.
type Picker interface {
	Pick(scores []float32) (index int, ok bool)
}

// FirstToScore picks the first choice, in declaration order, whose score
// reaches Threshold. Later choices are not considered once one qualifies,
// even if they score higher.
type FirstToScore struct {
	Threshold float32
}

// Pick implements Picker.
func (p FirstToScore) Pick(scores []float32) (int, bool) {
	for i, s := range scores {
		if s >= p.Threshold {
			return i, true
		}
	}
	return -1, false
}

// HighestScore picks the best-scoring choice at or above Threshold.
// Ties go to the earlier choice.
type HighestScore struct {
	Threshold float32
}

// Pick implements Picker.
func (p HighestScore) Pick(scores []float32) (int, bool) {
	best, bestScore := -1, float32(-1)
	for i, s := range scores {
		if s >= p.Threshold && s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, best >= 0
}
