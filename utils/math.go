package utils

import "math"

// Cramer3 solves the 3x3 linear system A x = b by Cramer's rule. The second
// return is false when the determinant magnitude falls below detEps, in which
// case x is all zero and the caller is expected to skip the reconstruction.
func Cramer3(A [3][3]float64, b [3]float64, detEps float64) (x [3]float64, ok bool) {
	det := Det3(A)
	if math.Abs(det) < detEps {
		return x, false
	}
	oodet := 1. / det
	for j := 0; j < 3; j++ {
		Aj := A
		for i := 0; i < 3; i++ {
			Aj[i][j] = b[i]
		}
		x[j] = Det3(Aj) * oodet
	}
	return x, true
}

func Det3(A [3][3]float64) float64 {
	return A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])
}

func Dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
