package model

import (
	"errors"
	"math"
	"sort"
)

// RegressionTree is a CART-style regression tree splitting on variance
// reduction. Fields are exported so the tree serializes with encoding/gob.
type RegressionTree struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int

	Root *TreeNode
}

type TreeNode struct {
	Feature   int
	Threshold float64 // x <= threshold goes left
	Left      *TreeNode
	Right     *TreeNode

	Leaf  bool
	Value float64 // mean target of samples in the leaf
}

// Fit builds the tree on the rows of X indexed by idx. Passing indices
// instead of copying rows keeps bootstrap sampling cheap for the forest.
func (t *RegressionTree) Fit(X [][]float64, y []float64, idx []int) error {
	if len(X) == 0 {
		return errors.New("tree: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("tree: feature and target lengths differ")
	}
	if idx == nil {
		idx = make([]int, len(X))
		for i := range idx {
			idx[i] = i
		}
	}

	t.Root = t.build(X, y, idx, 0)
	return nil
}

func (t *RegressionTree) build(X [][]float64, y []float64, idx []int, depth int) *TreeNode {
	if len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return &TreeNode{Leaf: true, Value: meanAt(y, idx)}
	}

	feature, threshold, ok := t.bestSplit(X, y, idx)
	if !ok {
		return &TreeNode{Leaf: true, Value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.build(X, y, left, depth+1),
		Right:     t.build(X, y, right, depth+1),
	}
}

// bestSplit scans every feature for the threshold minimizing the weighted
// child variance, honoring MinSamplesLeaf on both sides.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	numFeatures := len(X[idx[0]])
	order := make([]int, len(idx))

	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		// Running sums from the left allow each candidate threshold to be
		// scored in constant time.
		var leftSum, leftSq float64
		totalSum, totalSq := sumsAt(y, order)

		for pos := 0; pos < len(order)-1; pos++ {
			v := y[order[pos]]
			leftSum += v
			leftSq += v * v

			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}

			nLeft, nRight := pos+1, len(order)-pos-1
			if nLeft < t.MinSamplesLeaf || nRight < t.MinSamplesLeaf {
				continue
			}

			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			score := sse(leftSum, leftSq, nLeft) + sse(rightSum, rightSq, nRight)
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (X[order[pos]][f] + X[order[pos+1]][f]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// Predict returns the tree's estimate for a single feature row.
func (t *RegressionTree) Predict(x []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sumsAt(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}

// sse is the sum of squared errors around the mean, from running sums.
func sse(sum, sq float64, n int) float64 {
	return sq - sum*sum/float64(n)
}
