package marks

import "math"

// DefaultBins matches the bucket count of the historical histogram image.
const DefaultBins = 10

// Bin is one bucket of a frequency distribution. Low is inclusive; High is
// exclusive except for the last bin.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram buckets values into equal-width bins spanning [min, max].
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range values {
		i := int((v - lo) / width)
		switch {
		case i < 0:
			i = 0
		case i >= bins:
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
