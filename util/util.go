package util

import "golang.org/x/exp/constraints"

func Min[A constraints.Ordered](a A, b A) A {
	if a > b {
		return b
	}
	return a
}

func Max[A constraints.Ordered](a A, b A) A {
	if a < b {
		return b
	}
	return a
}

func Clamp[A constraints.Ordered](v A, lo A, hi A) A {
	return Max(lo, Min(v, hi))
}
