package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxIter        = 1000
	DefaultRegularization = 1.0
	newtonTolerance       = 1e-8
	maxHalvings           = 30
)

// LogisticRegression is a binary classifier with an L2 penalty on the
// weights (inverse strength C) and an unpenalized intercept. Fit uses
// Newton-Raphson steps.
type LogisticRegression struct {
	Weights    []float64
	Intercept  float64
	C          float64
	MaxIter    int
	Iterations int
	Converged  bool
}

func NewLogisticRegression(c float64, maxIter int) *LogisticRegression {
	if c <= 0 {
		c = DefaultRegularization
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	return &LogisticRegression{C: c, MaxIter: maxIter}
}

func (m *LogisticRegression) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return ErrEmptyDataset
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	var positives int
	for _, label := range labels {
		switch label {
		case LabelHealthy:
			positives++
		case LabelUnhealthy:
		default:
			return fmt.Errorf("unexpected label %d", label)
		}
	}
	if positives == 0 || positives == len(labels) {
		return errors.New("training subset contains a single class")
	}
	if m.C <= 0 {
		m.C = DefaultRegularization
	}
	if m.MaxIter <= 0 {
		m.MaxIter = DefaultMaxIter
	}

	n, p := len(features), len(features[0])+1
	for i, row := range features {
		if len(row)+1 != p {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), p-1)
		}
	}
	lambda := 1 / m.C
	theta := make([]float64, p)
	grad := mat.NewVecDense(p, nil)
	hess := mat.NewSymDense(p, nil)
	var chol mat.Cholesky
	var step mat.VecDense

	m.Converged = false
	m.Iterations = 0
	for iter := 0; iter < m.MaxIter; iter++ {
		for a := 0; a < p; a++ {
			grad.SetVec(a, 0)
			for b := a; b < p; b++ {
				hess.SetSym(a, b, 0)
			}
		}
		for i, row := range features {
			z := theta[0]
			for j, value := range row {
				z += theta[j+1] * value
			}
			prob := sigmoid(z)
			residual := prob - float64(labels[i])
			weight := prob * (1 - prob)
			for a := 0; a < p; a++ {
				xa := designValue(row, a)
				grad.SetVec(a, grad.AtVec(a)+residual*xa)
				for b := a; b < p; b++ {
					hess.SetSym(a, b, hess.At(a, b)+weight*xa*designValue(row, b))
				}
			}
		}
		for a := 1; a < p; a++ {
			grad.SetVec(a, grad.AtVec(a)+lambda*theta[a])
			hess.SetSym(a, a, hess.At(a, a)+lambda)
		}

		if !chol.Factorize(hess) {
			// Saturated probabilities leave the intercept curvature near zero.
			hess.SetSym(0, 0, hess.At(0, 0)+1e-10*float64(n))
			if !chol.Factorize(hess) {
				return errors.New("logistic regression: singular hessian")
			}
		}
		if err := chol.SolveVecTo(&step, grad); err != nil {
			// An ill-conditioned solve still yields a usable direction;
			// the line search below guards against a bad one.
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return fmt.Errorf("logistic regression: %w", err)
			}
		}

		// Halve the Newton step until the penalized loss stops increasing.
		current := penalizedLoss(features, labels, theta, lambda)
		scale := 1.0
		candidate := make([]float64, p)
		for halvings := 0; ; halvings++ {
			for a := 0; a < p; a++ {
				candidate[a] = theta[a] - scale*step.AtVec(a)
			}
			if penalizedLoss(features, labels, candidate, lambda) <= current || halvings == maxHalvings {
				break
			}
			scale /= 2
		}

		var maxStep float64
		for a := 0; a < p; a++ {
			maxStep = math.Max(maxStep, math.Abs(candidate[a]-theta[a]))
			theta[a] = candidate[a]
		}
		m.Iterations = iter + 1
		if maxStep < newtonTolerance {
			m.Converged = true
			break
		}
	}

	m.Intercept = theta[0]
	m.Weights = append([]float64(nil), theta[1:]...)
	return nil
}

func (m *LogisticRegression) Fitted() bool {
	return len(m.Weights) > 0
}

// ProbaVector returns P(label = healthy) for one scaled feature vector.
func (m *LogisticRegression) ProbaVector(vector []float64) (float64, error) {
	if !m.Fitted() {
		return 0, ErrNotFitted
	}
	if len(vector) != len(m.Weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Weights), len(vector))
	}
	z := m.Intercept
	for j, value := range vector {
		z += m.Weights[j] * value
	}
	return sigmoid(z), nil
}

func (m *LogisticRegression) PredictProba(features [][]float64) ([]float64, error) {
	out := make([]float64, len(features))
	for i, vector := range features {
		prob, err := m.ProbaVector(vector)
		if err != nil {
			return nil, err
		}
		out[i] = prob
	}
	return out, nil
}

func (m *LogisticRegression) Predict(features [][]float64) ([]int, error) {
	proba, err := m.PredictProba(features)
	if err != nil {
		return nil, err
	}
	return BinaryPredFromProba(proba, 0.5), nil
}

// penalizedLoss is the summed log loss plus lambda/2 times the squared
// weight norm. The intercept theta[0] is not penalized.
func penalizedLoss(features [][]float64, labels []int, theta []float64, lambda float64) float64 {
	var loss float64
	for i, row := range features {
		z := theta[0]
		for j, value := range row {
			z += theta[j+1] * value
		}
		// log(1+exp(z)) - y*z, computed without overflow.
		if z > 0 {
			loss += z + math.Log1p(math.Exp(-z))
		} else {
			loss += math.Log1p(math.Exp(z))
		}
		loss -= float64(labels[i]) * z
	}
	var norm float64
	for _, w := range theta[1:] {
		norm += w * w
	}
	return loss + lambda/2*norm
}

func designValue(row []float64, idx int) float64 {
	if idx == 0 {
		return 1
	}
	return row[idx-1]
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
