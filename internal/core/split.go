package core

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SplitOptions configures the train/test split.
type SplitOptions struct {
	TestRatio float64 // fraction of rows held out (default 0.2)
	Seed      int64   // default 42
}

// DefaultSplitOptions returns an 80/20 split with seed 42.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{TestRatio: 0.2, Seed: 42}
}

// trainTestSplit partitions row indices into training and held-out sets.
//
// With more than one distinct label the split is stratified: each class
// contributes its proportional share of the held-out rows (largest remainder
// rounding), and single-member classes stay in training. With one label the
// rows are permuted and split directly. Both index lists are sorted.
func trainTestSplit(labels []string, opts SplitOptions) (train, test []int, err error) {
	n := len(labels)
	ratio := opts.TestRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.2
	}
	nTest := int(math.Ceil(ratio*float64(n) - 1e-9))
	if n < 2 || nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows", ErrInsufficientRows, n)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	groups, order := groupByLabel(labels)
	if len(order) > 1 {
		train, test = stratifiedSplit(groups, order, n, nTest, rng)
	}
	if len(test) == 0 {
		perm := rng.Perm(n)
		test = append([]int(nil), perm[:nTest]...)
		train = append([]int(nil), perm[nTest:]...)
	}
	if len(train) == 0 {
		return nil, nil, fmt.Errorf("%w: empty training partition", ErrInsufficientRows)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// groupByLabel returns row indices per label and the labels in first-seen order.
func groupByLabel(labels []string) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], i)
	}
	return groups, order
}

func stratifiedSplit(groups map[string][]int, order []string, n, nTest int, rng *rand.Rand) (train, test []int) {
	type quota struct {
		label string
		take  int
		cap   int
		frac  float64
	}
	quotas := make([]quota, len(order))
	assigned := 0
	for i, l := range order {
		size := len(groups[l])
		exact := float64(nTest) * float64(size) / float64(n)
		q := quota{label: l, take: int(math.Floor(exact)), cap: size - 1, frac: exact - math.Floor(exact)}
		if q.take > q.cap {
			q.take = q.cap
		}
		quotas[i] = q
		assigned += q.take
	}

	// Hand out the remaining held-out slots by largest fractional part.
	byFrac := make([]int, len(quotas))
	for i := range byFrac {
		byFrac[i] = i
	}
	sort.SliceStable(byFrac, func(a, b int) bool { return quotas[byFrac[a]].frac > quotas[byFrac[b]].frac })
	for assigned < nTest {
		progressed := false
		for _, i := range byFrac {
			if assigned == nTest {
				break
			}
			if quotas[i].take < quotas[i].cap {
				quotas[i].take++
				assigned++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	for _, q := range quotas {
		members := append([]int(nil), groups[q.label]...)
		rng.Shuffle(len(members), func(a, b int) { members[a], members[b] = members[b], members[a] })
		test = append(test, members[:q.take]...)
		train = append(train, members[q.take:]...)
	}
	return train, test
}
