package intensity

// Impute fills null values using the mean of the nearest observed neighbours
// on each side. Observed values are never changed.
//
// Rules:
//   - A gap bounded on both sides becomes (previous + next) / 2.
//   - If the final position is still null afterwards, every remaining null
//     takes the previous observed value (trailing gap carried forward).
//   - A leading run before the first observation has no previous value and
//     stays null. An all-null sequence stays all null.
//
// The input slice is not modified.
func Impute(values []*float64) []*float64 {
	n := len(values)
	out := make([]*float64, n)
	if n == 0 {
		return out
	}

	forward := fillForward(values)
	backward := fillBackward(values)

	for i, v := range values {
		if v != nil {
			out[i] = v
			continue
		}
		if forward[i] != nil && backward[i] != nil {
			mean := (*forward[i] + *backward[i]) / 2
			out[i] = &mean
		}
	}

	if out[n-1] == nil {
		for i := range out {
			if out[i] == nil && forward[i] != nil {
				carried := *forward[i]
				out[i] = &carried
			}
		}
	}

	return out
}

// fillForward carries the last observed value forward through nulls.
func fillForward(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	var last *float64
	for i, v := range values {
		if v != nil {
			last = v
		}
		out[i] = last
	}
	return out
}

// fillBackward carries the next observed value backward through nulls.
func fillBackward(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	var next *float64
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			next = values[i]
		}
		out[i] = next
	}
	return out
}

// CountNull returns the number of nil entries.
func CountNull(values []*float64) int {
	n := 0
	for _, v := range values {
		if v == nil {
			n++
		}
	}
	return n
}
