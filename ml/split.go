package ml

import (
	"math"
	"math/rand"
)

const (
	DefaultTestRatio = 0.15
	DefaultSeed      = 42
)

// TrainTestSplit shuffles with a seeded source and holds out
// ceil(testRatio*n) samples for testing, always leaving one to train on.
// The same input and seed always produce the same split.
func TrainTestSplit(features [][]float64, labels []int, testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = DefaultTestRatio
	}
	n := len(features)
	if n == 0 {
		return nil, nil, nil, nil
	}

	nTest := int(math.Ceil(testRatio * float64(n)))
	if nTest >= n {
		nTest = n - 1
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	for i, idx := range indices {
		if i < nTest {
			testX = append(testX, features[idx])
			testY = append(testY, labels[idx])
		} else {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}
