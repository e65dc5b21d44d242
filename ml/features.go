package ml

const (
	ColumnTemperature  = "temperature"
	ColumnHumidity     = "humidity"
	ColumnPHLevel      = "ph_level"
	ColumnHealthStatus = "health_status"
)

// Sample is one cleaned sensor reading with its derived label.
type Sample struct {
	Temperature  float64
	Humidity     float64
	PHLevel      float64
	HealthStatus string
	Label        int
}

// FeatureNames lists model inputs in vector order.
func FeatureNames() []string {
	return []string{
		ColumnTemperature,
		ColumnHumidity,
		ColumnPHLevel,
	}
}

// RequiredColumns lists every column a training CSV must carry.
func RequiredColumns() []string {
	return append(FeatureNames(), ColumnHealthStatus)
}

func FeatureVector(sample Sample) []float64 {
	return []float64{
		sample.Temperature,
		sample.Humidity,
		sample.PHLevel,
	}
}
