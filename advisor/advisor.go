// Package advisor guesses which compression method will work best for a file
// given its size and entropy. Its answer is only a suggestion: any method can
// compress any input.
package advisor

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/huffman"
	"github.com/gocarina/gocsv"
)

// Predictor picks a compression method from features of the input.
type Predictor interface {
	PredictMethod(fileSizeBytes uint64, entropy float64) huffzip.Method
}

// Sample is one row of the reference table: a file and the method that
// compressed it best.
type Sample struct {
	FileSizeKB float64        `csv:"file_size_kb"`
	Entropy    float64        `csv:"entropy"`
	MethodName string         `csv:"best_method"`
	Method     huffzip.Method `csv:"-"`
}

//go:embed samples.csv
var samplesRawCSV string
var defaultPredictor *NearestSample

// LoadSamples decodes a sample table in CSV form. Every row must name a known
// method and have an entropy in [0, 1].
func LoadSamples(input io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(input, &samples); err != nil {
		return nil, huffzip.ErrInvalidArgument.WithMessage("bad sample table").Wrap(err)
	}
	if len(samples) == 0 {
		return nil, huffzip.ErrInvalidArgument.WithMessage("sample table is empty")
	}

	for i := range samples {
		row := &samples[i]
		method, err := huffzip.ParseMethod(row.MethodName)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		row.Method = method

		if row.FileSizeKB < 0 || math.IsNaN(row.FileSizeKB) {
			return nil, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("row %d: bad file size %v", i+1, row.FileSizeKB))
		}
		if !(row.Entropy >= 0 && row.Entropy <= 1) {
			return nil, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("row %d: entropy %v not in [0, 1]", i+1, row.Entropy))
		}
	}
	return samples, nil
}

// NearestSample predicts the method of the sample closest to the input. File
// sizes are compared on a log scale so that 10 KiB vs 20 KiB counts as much as
// 1 MiB vs 2 MiB.
type NearestSample struct {
	samples []Sample
}

// NewNearestSample creates a predictor over a copy of `samples`.
func NewNearestSample(samples []Sample) (*NearestSample, error) {
	if len(samples) == 0 {
		return nil, huffzip.ErrInvalidArgument.WithMessage("need at least one sample")
	}
	for i, sample := range samples {
		if err := huffzip.CheckMethod(sample.Method); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	predictor := &NearestSample{samples: make([]Sample, len(samples))}
	copy(predictor.samples, samples)
	return predictor, nil
}

// PredictMethod returns the method of the nearest sample. Ties go to the
// sample listed first.
func (p *NearestSample) PredictMethod(fileSizeBytes uint64, entropy float64) huffzip.Method {
	sizeFeature := sizeToFeature(float64(fileSizeBytes) / 1024)
	entropy = clampUnit(entropy)

	best := p.samples[0].Method
	bestDistance := math.Inf(1)
	for _, sample := range p.samples {
		dSize := sizeToFeature(sample.FileSizeKB) - sizeFeature
		dEntropy := sample.Entropy - entropy
		distance := dSize*dSize + dEntropy*dEntropy
		if distance < bestDistance {
			best = sample.Method
			bestDistance = distance
		}
	}
	return best
}

// Samples returns a copy of the built-in sample table.
func Samples() []Sample {
	samples := make([]Sample, len(defaultPredictor.samples))
	copy(samples, defaultPredictor.samples)
	return samples
}

// Default returns the predictor built from the built-in sample table.
func Default() Predictor {
	return defaultPredictor
}

// PredictMethod asks the default predictor.
func PredictMethod(fileSizeBytes uint64, entropy float64) huffzip.Method {
	return defaultPredictor.PredictMethod(fileSizeBytes, entropy)
}

// Entropy returns the Shannon entropy of the bytes in block, divided by 8 so
// that it's in [0, 1]. An empty block has an entropy of 0.
func Entropy(block []byte) float64 {
	table := huffman.BuildFrequencyTable(block)
	total := float64(table.Total())
	if total == 0 {
		return 0
	}

	bits := 0.0
	for _, symbol := range table.Symbols() {
		p := float64(table.Count(symbol)) / total
		bits -= p * math.Log2(p)
	}
	return clampUnit(bits / 8)
}

// sizeToFeature maps a size in KiB to roughly [0, 1] for sizes up to 10 GiB.
func sizeToFeature(kilobytes float64) float64 {
	return math.Log10(1+kilobytes) / 7
}

func clampUnit(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func init() {
	samples, err := LoadSamples(strings.NewReader(samplesRawCSV))
	if err != nil {
		panic(fmt.Errorf("failed to load built-in samples: %w", err))
	}
	defaultPredictor, err = NewNearestSample(samples)
	if err != nil {
		panic(fmt.Errorf("failed to create default predictor: %w", err))
	}
}
