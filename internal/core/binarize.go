package core

import "github.com/JonMunkholm/datalens/internal/dataset"

// binarizeMinDistinct is the number of distinct numeric target values above
// which the target is treated as continuous and split at its median.
const binarizeMinDistinct = 10

// BinarizeTarget turns a high-cardinality numeric target into a 0/1 label.
//
// It applies only when y is numeric and has more than 10 distinct present
// values. Each row becomes "1" when its value is strictly greater than the
// median of the present values and "0" otherwise, absent values included.
// y is never modified; the boolean reports whether a new vector was built.
func BinarizeTarget(y TargetVector) (TargetVector, bool) {
	if y.Kind != dataset.KindNumeric || len(y.Distinct()) <= binarizeMinDistinct {
		return y, false
	}

	present := make([]float64, 0, y.Len())
	for i, ok := range y.Valid {
		if ok {
			present = append(present, y.Values[i])
		}
	}
	med := median(present)

	out := TargetVector{
		Name:   y.Name,
		Kind:   dataset.KindNumeric,
		Labels: make([]string, y.Len()),
		Valid:  make([]bool, y.Len()),
		Values: make([]float64, y.Len()),
	}
	for i := range y.Labels {
		out.Valid[i] = true
		if y.Valid[i] && y.Values[i] > med {
			out.Labels[i] = "1"
			out.Values[i] = 1
		} else {
			out.Labels[i] = "0"
		}
	}
	return out, true
}
