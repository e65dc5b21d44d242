package ml

// Metrics summarizes binary classification quality on a held-out set.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var correct int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// PrecisionRecallF1 treats LabelHealthy as the positive class.
func PrecisionRecallF1(yTrue, yPred []int) (precision, recall, f1 float64) {
	var tp, fp, fn int
	for i := range yTrue {
		switch {
		case yPred[i] == LabelHealthy && yTrue[i] == LabelHealthy:
			tp++
		case yPred[i] == LabelHealthy && yTrue[i] == LabelUnhealthy:
			fp++
		case yPred[i] == LabelUnhealthy && yTrue[i] == LabelHealthy:
			fn++
		}
	}
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

func Evaluate(yTrue, yPred []int) Metrics {
	precision, recall, f1 := PrecisionRecallF1(yTrue, yPred)
	return Metrics{
		Accuracy:  Accuracy(yTrue, yPred),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Support:   len(yTrue),
	}
}

func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > threshold {
			out[i] = LabelHealthy
		} else {
			out[i] = LabelUnhealthy
		}
	}
	return out
}
