package pixgen

import (
	"strconv"
	"time"

	"golang.org/x/exp/rand"
)

// RandomSelect returns k distinct indices drawn uniformly at random from
// [0, n), without replacement. Requesting more indices than are available is
// rejected rather than truncated. The order of the returned indices carries
// no meaning beyond being a valid subset.
//
// Selection uses a partial Fisher-Yates shuffle over the candidate list, so
// the cost stays bounded even when k approaches n. A nil source falls back to
// a time-seeded one.
func RandomSelect(n, k int, src rand.Source) ([]int, error) {
	if n < 0 || k < 0 {
		return nil, ArgumentError("selection bounds must be non-negative")
	}
	if k > n {
		return nil, ArgumentError("cannot select " + strconv.Itoa(k) + " distinct indices from " + strconv.Itoa(n))
	}
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	rng := rand.New(src)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:k], nil
}
