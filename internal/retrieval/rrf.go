// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

// DefaultRRFK is the standard reciprocal-rank-fusion constant.
const DefaultRRFK = 60

// RRF fuses several rankings with reciprocal rank fusion. Each list
// contributes 1/(k + position + 1) to the score of the item at that
// position; items appearing high in multiple rankings score highest.
func RRF(rankings [][]string, k int) map[string]float64 {
	if k <= 0 {
		k = DefaultRRFK
	}

	scores := make(map[string]float64)
	for _, ranking := range rankings {
		for pos, id := range ranking {
			scores[id] += 1.0 / float64(k+pos+1)
		}
	}
	return scores
}
