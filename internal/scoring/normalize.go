package scoring

// MinMax rescales values to the 0-1 range relative to the set's own min and
// max. A flat set (max == min) carries no discriminating signal and maps every
// element to 0; that is policy, not an error. The result is always computed
// over the current candidate pool, never cached.
func MinMax(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max <= min {
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}
