package receiptcreate

import "math"

// ToCents rounds an amount to whole cents
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts cents back to an amount
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// SplitCents divides total into n shares that sum to total. The remainder
// cents go one by one to the first shares.
func SplitCents(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	shares := make([]int64, n)
	base := total / int64(n)
	rest := total % int64(n)
	for i := range shares {
		shares[i] = base
		if int64(i) < rest {
			shares[i]++
		}
	}
	return shares
}
