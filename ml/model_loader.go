package ml

import (
	"fmt"
)

const ModelTypeLogisticRegression = "logistic_regression"

func LoadModel(modelType, path string) (MLModel, error) {
	switch modelType {
	case ModelTypeLogisticRegression, "":
		model := &Pipeline{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}
