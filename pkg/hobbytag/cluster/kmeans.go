package cluster

import (
	"math"

	"github.com/cognicore/hobbytag/pkg/hobbytag/embed"
)

const (
	// DefaultK is the cluster count used when none (or an invalid one) is given
	DefaultK = 6
	// MaxIterations bounds the k-means loop
	MaxIterations = 40
	// Epsilon is the centroid drift, 1 - cos, below which a centroid is stable
	Epsilon = 1e-6
)

// Assignment is the outcome of one k-means run
type Assignment struct {
	Labels     []int // cluster per input vector
	Centroids  [][]float64
	Iterations int
}

// KMeansCosine clusters vectors by cosine similarity. Vectors are
// normalized first. The effective k is max(2, min(k, n)) and centroids are
// seeded by striding through the input, so the result is deterministic.
func KMeansCosine(vectors [][]float64, k int) Assignment {
	n := len(vectors)
	if n == 0 {
		return Assignment{}
	}

	unit := make([][]float64, n)
	for i, v := range vectors {
		unit[i] = embed.Normalize(v)
	}

	realK := max(2, min(k, n))
	step := max(1, n/realK)
	centroids := make([][]float64, realK)
	for i := range centroids {
		centroids[i] = append([]float64(nil), unit[min(i*step, n-1)]...)
	}

	labels := make([]int, n)
	iter := 0
	for iter < MaxIterations {
		iter++
		changed := false

		for i, v := range unit {
			best, bestScore := 0, math.Inf(-1)
			for c, centroid := range centroids {
				if score := dot(v, centroid); score > bestScore {
					best, bestScore = c, score
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		members := make([][][]float64, realK)
		for i, v := range unit {
			members[labels[i]] = append(members[labels[i]], v)
		}
		for c := range centroids {
			if len(members[c]) == 0 {
				continue
			}
			next := embed.Normalize(mean(members[c]))
			if math.Abs(1-dot(next, centroids[c])) > Epsilon {
				changed = true
			}
			centroids[c] = next
		}

		if !changed {
			break
		}
	}

	return Assignment{Labels: labels, Centroids: centroids, Iterations: iter}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func mean(vectors [][]float64) []float64 {
	out := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			out[i] += x
		}
	}
	for i := range out {
		out[i] /= float64(len(vectors))
	}
	return out
}
