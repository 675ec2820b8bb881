package DG3D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestQuadratureExactness(t *testing.T) {
	// Weights sum to one for every tetrahedron rule
	for _, ng := range []int{1, 4, 5, 11, 14} {
		_, wgp := GaussQuadratureTet(ng)
		var sum float64
		for _, w := range wgp {
			sum += w
		}
		assert.True(t, near(sum, 1.0, 1e-14), "tet rule %d", ng)
	}
	for _, ng := range []int{1, 3, 6, 12} {
		_, wgp := GaussQuadratureTri(ng)
		var sum float64
		for _, w := range wgp {
			sum += w
		}
		assert.True(t, near(sum, 1.0, 1e-14), "tri rule %d", ng)
	}

	// Mean values of monomials over the unit tetrahedron: E[xi] = 1/4,
	// E[xi^2] = 1/10, E[xi*eta] = 1/20, E[xi^2*eta^2] = 1/210
	for _, ng := range []int{5, 11, 14} {
		coordgp, wgp := GaussQuadratureTet(ng)
		var m1, m2, m11 float64
		for i := range wgp {
			m1 += wgp[i] * coordgp[0][i]
			m2 += wgp[i] * coordgp[0][i] * coordgp[0][i]
			m11 += wgp[i] * coordgp[0][i] * coordgp[1][i]
		}
		assert.True(t, near(m1, 0.25, 1e-13), "rule %d", ng)
		assert.True(t, near(m2, 0.1, 1e-13), "rule %d", ng)
		assert.True(t, near(m11, 0.05, 1e-13), "rule %d", ng)
	}

	// Degree-4 exactness of the 11 and 14 point rules:
	// E[xi^2*eta^2] = integral/volume = (2!2!/7!)*6 = 1/210
	for _, ng := range []int{11, 14} {
		coordgp, wgp := GaussQuadratureTet(ng)
		var m22 float64
		for i := range wgp {
			m22 += wgp[i] * coordgp[0][i] * coordgp[0][i] *
				coordgp[1][i] * coordgp[1][i]
		}
		assert.True(t, near(m22, 1.0/210.0, 1e-13), "rule %d", ng)
	}
}

func TestBasisOrthogonality(t *testing.T) {
	// The Dubiner basis is orthogonal under unit weight; the mass matrix is
	// diagonal with the closed-form entries of MassMatrixDubiner
	for _, ndof := range []int{4, 10} {
		ng := NGvol(ndof)
		coordgp, wgp := GaussQuadratureTet(ng)
		L := MassMatrixDubiner(ndof, 1.0)

		M := make([][]float64, ndof)
		for i := range M {
			M[i] = make([]float64, ndof)
		}
		for igp := 0; igp < ng; igp++ {
			B := EvalBasis(ndof, coordgp[0][igp], coordgp[1][igp],
				coordgp[2][igp])
			for i := 0; i < ndof; i++ {
				for j := 0; j < ndof; j++ {
					M[i][j] += wgp[igp] * B[i] * B[j]
				}
			}
		}
		for i := 0; i < ndof; i++ {
			for j := 0; j < ndof; j++ {
				if i == j {
					assert.True(t, near(M[i][j], L[i], 1e-12),
						"ndof %d entry (%d,%d): %v vs %v", ndof, i, j,
						M[i][j], L[i])
				} else {
					assert.True(t, near(M[i][j], 0.0, 1e-12),
						"ndof %d entry (%d,%d): %v", ndof, i, j, M[i][j])
				}
			}
		}
	}
}

func TestMassMatrixClosedForm(t *testing.T) {
	// Reference element values vol*{1, 1/10, ...} with vol = 1/6 reproduce
	// the closed-form list
	L := MassMatrixDubiner(10, 1.0/6.0)
	want := []float64{1. / 6., 1. / 60., 1. / 20., 1. / 10., 1. / 210.,
		1. / 126., 1. / 84., 1. / 42., 1. / 28., 1. / 14.}
	for i := range want {
		assert.True(t, near(L[i], want[i], 1e-15), "entry %d", i)
	}
}

func TestBasisGradients(t *testing.T) {
	// Finite-difference check of the physical basis gradients on a skewed
	// tetrahedron
	coordel := [4][3]float64{
		{0.1, 0.2, 0.05},
		{1.2, 0.1, 0.3},
		{0.3, 1.1, 0.2},
		{0.2, 0.4, 1.3},
	}
	jacInv := InverseJacobian(coordel[0], coordel[1], coordel[2], coordel[3])
	detT := Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])

	evalAt := func(x [3]float64, ndof int) []float64 {
		ref := RefCoords(x, coordel, detT)
		return EvalBasis(ndof, ref[0], ref[1], ref[2])
	}

	x0 := [3]float64{0.4, 0.4, 0.4}
	ref0 := RefCoords(x0, coordel, detT)

	dBdx := EvalDBdxP1(10, jacInv)
	EvalDBdxP2(ref0[0], ref0[1], ref0[2], jacInv, dBdx)

	const h = 1e-6
	for idir := 0; idir < 3; idir++ {
		xp, xm := x0, x0
		xp[idir] += h
		xm[idir] -= h
		Bp := evalAt(xp, 10)
		Bm := evalAt(xm, 10)
		for ib := 1; ib < 10; ib++ {
			fd := (Bp[ib] - Bm[ib]) / (2 * h)
			assert.True(t, near(fd, dBdx[idir][ib], 1e-5),
				"basis %d dir %d: fd %v analytic %v", ib, idir, fd,
				dBdx[idir][ib])
		}
	}
}

func TestJacobianSignedVolume(t *testing.T) {
	// Unit tetrahedron: Jacobian = 6 * volume = 1
	a := [3]float64{0, 0, 0}
	b := [3]float64{1, 0, 0}
	c := [3]float64{0, 1, 0}
	d := [3]float64{0, 0, 1}
	assert.True(t, near(Jacobian(a, b, c, d), 1.0, 1e-15))
	// Swapping two nodes flips the sign
	assert.True(t, near(Jacobian(a, c, b, d), -1.0, 1e-15))
}

func TestRefCoordsRoundTrip(t *testing.T) {
	coordel := [4][3]float64{
		{0, 0, 0}, {2, 0.1, 0}, {0.2, 1.5, 0.1}, {0, 0.2, 1.1},
	}
	detT := Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])

	coordgp, _ := GaussQuadratureTet(5)
	for igp := 0; igp < 5; igp++ {
		gp := EvalGPTet(igp, coordel, coordgp)
		ref := RefCoords(gp, coordel, detT)
		assert.True(t, near(ref[0], coordgp[0][igp], 1e-12))
		assert.True(t, near(ref[1], coordgp[1][igp], 1e-12))
		assert.True(t, near(ref[2], coordgp[2][igp], 1e-12))
	}
}
