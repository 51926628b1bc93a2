package meter

import (
	"math"
	"sort"
)

// selectionThreshold is the sample count above which quickselect replaces a
// full sort.
const selectionThreshold = 1000

// CalculatePercentile returns the nearest-rank p-th percentile of values: the
// smallest value such that at least p% of the samples are less than or equal to
// it. ok is false for an empty input.
func CalculatePercentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	if len(values) <= selectionThreshold {
		return calculatePercentileSorted(values, p), true
	}

	return calculatePercentileSelection(values, p), true
}

// rankIndex is the zero-based nearest-rank index, ceil(n*p/100)-1, clamped.
func rankIndex(n int, p float64) int {
	k := int(math.Ceil(float64(n)*p/100.0)) - 1
	if k < 0 {
		k = 0
	}
	if k >= n {
		k = n - 1
	}
	return k
}

// calculatePercentileSorted sorts a copy and indexes into it
func calculatePercentileSorted(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[rankIndex(len(sorted), p)]
}

// calculatePercentileSelection uses quickselect on a copy, avoiding the
// O(n log n) sort when only one rank is needed
func calculatePercentileSelection(values []float64, p float64) float64 {
	data := make([]float64, len(values))
	copy(data, values)
	return quickSelect(data, rankIndex(len(data), p))
}

// quickSelect finds the k-th smallest element, reordering arr in place.
// Average O(n), worst case O(n^2).
func quickSelect(arr []float64, k int) float64 {
	left := 0
	right := len(arr) - 1

	for {
		if left == right {
			return arr[left]
		}

		pivotIndex := partition(arr, left, right)

		if k == pivotIndex {
			return arr[k]
		} else if k < pivotIndex {
			right = pivotIndex - 1
		} else {
			left = pivotIndex + 1
		}
	}
}

// partition moves everything smaller than the pivot to its left and returns the
// pivot's final position
func partition(arr []float64, left, right int) int {
	// Middle element as pivot; frame deltas often arrive nearly sorted
	pivotIndex := left + (right-left)/2
	pivot := arr[pivotIndex]

	arr[pivotIndex], arr[right] = arr[right], arr[pivotIndex]
	storeIndex := left

	for i := left; i < right; i++ {
		if arr[i] < pivot {
			arr[storeIndex], arr[i] = arr[i], arr[storeIndex]
			storeIndex++
		}
	}

	arr[storeIndex], arr[right] = arr[right], arr[storeIndex]
	return storeIndex
}

// CalculateMultiplePercentiles sorts once and reads every requested rank.
func CalculateMultiplePercentiles(values []float64, percentiles []float64) map[float64]float64 {
	result := make(map[float64]float64, len(percentiles))
	if len(values) == 0 {
		return result
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	for _, p := range percentiles {
		result[p] = sorted[rankIndex(len(sorted), p)]
	}
	return result
}
