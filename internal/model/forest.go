package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"

	"tabular-backend/internal/dataset"
)

// Default hyperparameters, applied when the caller does not override them.
const (
	DefaultMaxDepth        = 2
	DefaultMinSamplesLeaf  = 7
	DefaultMinSamplesSplit = 2
	DefaultNumTrees        = 50
)

// Hyperparameters are the tunable options of the forest regressor.
type Hyperparameters struct {
	MaxDepth        int `json:"max_depth"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`
	MinSamplesSplit int `json:"min_samples_split"`
	NumTrees        int `json:"n_estimators"`
}

func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		MaxDepth:        DefaultMaxDepth,
		MinSamplesLeaf:  DefaultMinSamplesLeaf,
		MinSamplesSplit: DefaultMinSamplesSplit,
		NumTrees:        DefaultNumTrees,
	}
}

// ForestRegressor is a bagged ensemble of regression trees. Predictions are
// the mean over all trees.
type ForestRegressor struct {
	Params Hyperparameters
	Seed   int64

	Trees []*RegressionTree
}

func NewForestRegressor(params Hyperparameters, seed int64) *ForestRegressor {
	return &ForestRegressor{Params: params, Seed: seed}
}

// Fit trains the ensemble. Each tree fits a bootstrap sample drawn with its
// own seeded source, so a given seed always yields the same forest.
func (f *ForestRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("forest: empty training set")
	}
	if len(X) != len(y) {
		return errors.New("forest: feature and target lengths differ")
	}

	n := len(X)
	f.Trees = make([]*RegressionTree, f.Params.NumTrees)

	bar := progressbar.NewOptions(f.Params.NumTrees,
		progressbar.OptionSetDescription("fitting trees"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)

	var wg sync.WaitGroup
	errCh := make(chan error, f.Params.NumTrees)

	for i := 0; i < f.Params.NumTrees; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(f.Seed + int64(treeIdx)))
			sample := make([]int, n)
			for j := range sample {
				sample[j] = rng.Intn(n)
			}

			tree := &RegressionTree{
				MaxDepth:        f.Params.MaxDepth,
				MinSamplesSplit: f.Params.MinSamplesSplit,
				MinSamplesLeaf:  f.Params.MinSamplesLeaf,
			}
			if err := tree.Fit(X, y, sample); err != nil {
				errCh <- fmt.Errorf("tree %d: %w", treeIdx, err)
				return
			}
			f.Trees[treeIdx] = tree
			bar.Add(1) //nolint:errcheck
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return err
	}
	return nil
}

// Predict averages the trees over each feature row, returning an n x 1
// matrix.
func (f *ForestRegressor) Predict(X [][]float64) (*mat.Dense, error) {
	if len(f.Trees) == 0 {
		return nil, errors.New("forest: model is not fitted")
	}

	out := mat.NewDense(len(X), 1, nil)
	for i, row := range X {
		var sum float64
		for _, tree := range f.Trees {
			sum += tree.Predict(row)
		}
		out.Set(i, 0, sum/float64(len(f.Trees)))
	}
	return out, nil
}

// Apply implements Artifact. The frame must be fully numeric; if it still
// carries the label column the label is dropped before predicting.
func (f *ForestRegressor) Apply(frame *dataset.Frame) (*mat.Dense, error) {
	if frame.HasColumn(dataset.LabelColumn) {
		var err error
		frame, err = frame.Drop(dataset.LabelColumn)
		if err != nil {
			return nil, err
		}
	}

	X, err := frame.FloatMatrix()
	if err != nil {
		return nil, fmt.Errorf("forest: %w", err)
	}
	return f.Predict(X)
}
