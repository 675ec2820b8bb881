package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixBasics(t *testing.T) {
	M := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	nr, nc := M.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 3, nc)
	assert.Equal(t, 6.0, M.At(1, 2))

	M.Set(0, 1, -2)
	assert.Equal(t, -2.0, M.At(0, 1))
	M.Add(0, 1, 1)
	assert.Equal(t, -1.0, M.At(0, 1))

	C := M.Copy()
	C.Set(0, 0, 99)
	assert.Equal(t, 1.0, M.At(0, 0))

	assert.Panics(t, func() { NewMatrix(2, 2, []float64{1}) })
}

func TestMatrixInverseMul(t *testing.T) {
	A := NewMatrix(3, 3, []float64{2, 0, 1, 0, 3, 0, 1, 0, 2})
	Ainv, err := A.Inverse()
	require.NoError(t, err)
	I := A.Mul(Ainv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, I.At(i, j), 1e-14)
		}
	}
}

func TestLUSolve(t *testing.T) {
	A := NewMatrix(4, 4, []float64{
		4, 1, 0, 0,
		1, 4, 1, 0,
		0, 1, 4, 1,
		0, 0, 1, 4,
	})
	want := []float64{1, -2, 3, -4}
	b := make([]float64, 4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			b[i] += A.At(i, j) * want[j]
		}
	}
	x, err := LUSolve(A, b)
	require.NoError(t, err)
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-13)
	}
}

func TestCramer3(t *testing.T) {
	A := [3][3]float64{{2, 1, 0}, {1, 3, 1}, {0, 1, 2}}
	want := [3]float64{1, 2, 3}
	var b [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i] += A[i][j] * want[j]
		}
	}
	x, ok := Cramer3(A, b, 1e-30)
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], x[i], 1e-13)
	}

	// singular system is reported, not solved
	S := [3][3]float64{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}
	_, ok = Cramer3(S, b, 1e-30)
	assert.False(t, ok)

	assert.True(t, math.Abs(Det3(S)) < 1e-30)
}
