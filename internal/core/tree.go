package core

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// treeParams controls how a single decision tree grows.
type treeParams struct {
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
}

// treeNode is either a split (left/right >= 0) or a leaf carrying class probabilities.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	proba     []float64
}

func (n *treeNode) isLeaf() bool { return n.left < 0 }

// decisionTree is a CART classifier using gini impurity and axis-aligned
// threshold splits. Nodes are stored flat; index 0 is the root.
type decisionTree struct {
	params   treeParams
	nClasses int
	nodes    []treeNode
	rng      *rand.Rand

	// scratch, valid during fit only
	data     []float64
	stride   int
	features []int
	y        []int
}

func newDecisionTree(params treeParams, nClasses int, rng *rand.Rand) *decisionTree {
	return &decisionTree{params: params, nClasses: nClasses, rng: rng}
}

// fit grows the tree on the given sample of rows of X. sample may contain
// repeated rows (bootstrap draws).
func (t *decisionTree) fit(X *mat.Dense, y []int, sample []int) {
	raw := X.RawMatrix()
	t.data = raw.Data
	t.stride = raw.Stride
	t.y = y
	t.features = make([]int, raw.Cols)
	for i := range t.features {
		t.features[i] = i
	}
	t.nodes = t.nodes[:0]

	idx := make([]int, len(sample))
	copy(idx, sample)
	t.build(idx, 0)

	t.data, t.y, t.features = nil, nil, nil
}

func (t *decisionTree) at(row, feature int) float64 {
	return t.data[row*t.stride+feature]
}

func (t *decisionTree) classCounts(idx []int) []int {
	counts := make([]int, t.nClasses)
	for _, i := range idx {
		counts[t.y[i]]++
	}
	return counts
}

// build grows the subtree for idx and returns its node index.
func (t *decisionTree) build(idx []int, depth int) int {
	counts := t.classCounts(idx)
	nodeID := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{left: -1, right: -1})

	if t.shouldStop(idx, counts, depth) {
		t.nodes[nodeID].proba = leafProba(counts, len(idx))
		return nodeID
	}

	feature, threshold, ok := t.bestSplit(idx, counts)
	if !ok {
		t.nodes[nodeID].proba = leafProba(counts, len(idx))
		return nodeID
	}

	var left, right []int
	for _, i := range idx {
		if t.at(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := t.build(left, depth+1)
	r := t.build(right, depth+1)
	t.nodes[nodeID].feature = feature
	t.nodes[nodeID].threshold = threshold
	t.nodes[nodeID].left = l
	t.nodes[nodeID].right = r
	return nodeID
}

func (t *decisionTree) shouldStop(idx []int, counts []int, depth int) bool {
	if len(idx) < t.params.minSamplesSplit || len(idx) < 2*t.params.minSamplesLeaf {
		return true
	}
	if t.params.maxDepth > 0 && depth >= t.params.maxDepth {
		return true
	}
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func leafProba(counts []int, n int) []float64 {
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for k, c := range counts {
		p[k] = float64(c) / float64(n)
	}
	return p
}

// bestSplit draws features in random order and evaluates them until
// maxFeatures non-constant features have been examined. It returns the
// split with the lowest weighted gini impurity.
func (t *decisionTree) bestSplit(idx []int, parent []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	bestScore := -1.0
	examined := 0

	order := make([]int, n)
	values := make([]float64, n)
	left := make([]int, t.nClasses)
	right := make([]int, t.nClasses)

	// Partial Fisher-Yates over the shared feature slice.
	for k := 0; k < len(t.features) && examined < t.params.maxFeatures; k++ {
		swap := k + t.rng.Intn(len(t.features)-k)
		t.features[k], t.features[swap] = t.features[swap], t.features[k]
		f := t.features[k]

		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return t.at(order[a], f) < t.at(order[b], f) })
		for i, row := range order {
			values[i] = t.at(row, f)
		}
		if values[0] == values[n-1] {
			continue
		}
		examined++

		for c := range left {
			left[c] = 0
			right[c] = parent[c]
		}
		var sumSqL, sumSqR float64
		for _, c := range parent {
			sumSqR += float64(c) * float64(c)
		}

		for i := 0; i < n-1; i++ {
			c := t.y[order[i]]
			sumSqL += float64(2*left[c] + 1)
			sumSqR -= float64(2*right[c] - 1)
			left[c]++
			right[c]--

			nl := i + 1
			nr := n - nl
			if values[i] == values[i+1] || nl < t.params.minSamplesLeaf || nr < t.params.minSamplesLeaf {
				continue
			}
			// Maximising this proxy minimises the weighted child gini impurity.
			score := sumSqL/float64(nl) + sumSqR/float64(nr)
			if score > bestScore {
				bestScore = score
				feature = f
				threshold = values[i]/2 + values[i+1]/2
				if threshold >= values[i+1] || math.IsNaN(threshold) {
					threshold = values[i]
				}
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// predictProba returns the leaf class distribution for a single row.
func (t *decisionTree) predictProba(row []float64) []float64 {
	n := &t.nodes[0]
	for !n.isLeaf() {
		if row[n.feature] <= n.threshold {
			n = &t.nodes[n.left]
		} else {
			n = &t.nodes[n.right]
		}
	}
	return n.proba
}
