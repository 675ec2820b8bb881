package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a gonum dense matrix and keeps a raw pointer to the backing
// slice for index arithmetic in hot loops
type Matrix struct {
	M     *mat.Dense
	DataP []float64
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NR*NC = %d, len(data) = %d",
				nr*nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:     m,
		DataP: m.RawMatrix().Data,
	}
	return
}

func (m Matrix) Dims() (nr, nc int) { return m.M.Dims() }

func (m Matrix) At(i, j int) float64 {
	_, nc := m.M.Dims()
	return m.DataP[i*nc+j]
}

func (m Matrix) Set(i, j int, val float64) {
	_, nc := m.M.Dims()
	m.DataP[i*nc+j] = val
}

func (m Matrix) Add(i, j int, val float64) {
	_, nc := m.M.Dims()
	m.DataP[i*nc+j] += val
}

func (m Matrix) Data() []float64 { return m.DataP }

func (m Matrix) IsEmpty() bool { return m.M == nil }

func (m Matrix) Copy() (R Matrix) {
	nr, nc := m.M.Dims()
	R = NewMatrix(nr, nc)
	copy(R.DataP, m.DataP)
	return
}

func (m Matrix) Scale(a float64) Matrix {
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) Fill(val float64) {
	for i := range m.DataP {
		m.DataP[i] = val
	}
}

func (m Matrix) Mul(A Matrix) (R Matrix) {
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) Inverse() (R Matrix, err error) {
	nr, nc := m.M.Dims()
	R = NewMatrix(nr, nc)
	err = R.M.Inverse(m.M)
	return
}

func (m Matrix) Max() (mx float64) {
	for _, val := range m.DataP {
		if val > mx {
			mx = val
		}
	}
	return
}

// LUSolve solves the n x n system A x = b using gonum's LU decomposition
func LUSolve(A Matrix, b []float64) (x []float64, err error) {
	var (
		n  = len(b)
		lu mat.LU
	)
	lu.Factorize(A.M)
	xv := mat.NewVecDense(n, nil)
	if err = lu.SolveVecTo(xv, false, mat.NewVecDense(n, b)); err != nil {
		return nil, err
	}
	x = xv.RawVector().Data
	return
}
