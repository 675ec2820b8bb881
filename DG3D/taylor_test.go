package DG3D

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/multimat/utils"
)

func TestTaylorRoundTrip(t *testing.T) {
	// TaylorToDubinerRefEl(DubinerToTaylorRefEl(u)) == u for ndof 4 and 10
	rng := rand.New(rand.NewSource(42))
	for _, ndof := range []int{4, 10} {
		var (
			ncomp = 3
			rdof  = ndof
			U     = utils.NewMatrix(1, ncomp*rdof)
			mtInv = TaylorMassMatrixInvRefEl(ndof)
		)
		for i := range U.DataP {
			U.DataP[i] = rng.Float64()*2 - 1
		}
		orig := make([]float64, len(U.DataP))
		copy(orig, U.DataP)

		unk := DubinerToTaylorRefEl(ncomp, 0, rdof, ndof, mtInv, U)
		TaylorToDubinerRefEl(ncomp, ndof, unk)

		for c := 0; c < ncomp; c++ {
			for idof := 0; idof < ndof; idof++ {
				assert.True(t, near(unk[c][idof], orig[c*rdof+idof], 1e-11),
					"ndof %d comp %d dof %d: %v vs %v", ndof, c, idof,
					unk[c][idof], orig[c*rdof+idof])
			}
		}
	}
}

func TestTaylorCellAveragePreserved(t *testing.T) {
	// The P0 mode survives the Dubiner -> Taylor -> Dubiner round trip
	var (
		ndof  = 10
		U     = utils.NewMatrix(1, ndof)
		mtInv = TaylorMassMatrixInvRefEl(ndof)
	)
	U.DataP[0] = 3.14159
	for i := 1; i < ndof; i++ {
		U.DataP[i] = float64(i) * 0.1
	}
	unk := DubinerToTaylorRefEl(1, 0, ndof, ndof, mtInv, U)
	TaylorToDubinerRefEl(1, ndof, unk)
	assert.True(t, near(unk[0][0], 3.14159, 1e-12))
}

func TestTaylorBasisZeroMean(t *testing.T) {
	// All Taylor modes above the first integrate to zero over the reference
	// element
	ng := NGvol(10)
	coordgp, wgp := GaussQuadratureTet(ng)
	mean := make([]float64, 10)
	for igp := 0; igp < ng; igp++ {
		Bt := EvalTaylorBasisRefEl(10, coordgp[0][igp], coordgp[1][igp],
			coordgp[2][igp])
		for i := 0; i < 10; i++ {
			mean[i] += wgp[igp] * Bt[i]
		}
	}
	assert.True(t, near(mean[0], 1.0, 1e-13))
	for i := 1; i < 10; i++ {
		assert.True(t, near(mean[i], 0.0, 1e-13), "mode %d mean %v", i, mean[i])
	}
}

func TestInverseBasisProjection(t *testing.T) {
	// A linear field expressed in the physical Taylor basis projects onto
	// Dubiner coefficients that reproduce it at the quadrature points
	coordel := [4][3]float64{
		{0.1, 0, 0}, {1.1, 0.2, 0}, {0.2, 1.2, 0.1}, {0, 0.1, 0.9},
	}
	var xc [3]float64
	for i := 0; i < 3; i++ {
		xc[i] = 0.25 * (coordel[0][i] + coordel[1][i] + coordel[2][i] +
			coordel[3][i])
	}

	// u(x) = 2 + 3(x-xc) - (y-yc) + 0.5(z-zc)
	const rdof = 4
	unk := [][]float64{{2.0, 3.0, -1.0, 0.5}}
	U := utils.NewMatrix(1, rdof)

	InverseBasis(1, 0, rdof, coordel, xc, unk, U)

	ng := NGvol(rdof)
	coordgp, _ := GaussQuadratureTet(ng)
	for igp := 0; igp < ng; igp++ {
		gp := EvalGPTet(igp, coordel, coordgp)
		want := 2.0 + 3.0*(gp[0]-xc[0]) - (gp[1] - xc[1]) + 0.5*(gp[2]-xc[2])

		B := EvalBasis(rdof, coordgp[0][igp], coordgp[1][igp], coordgp[2][igp])
		var got float64
		for idof := 0; idof < rdof; idof++ {
			got += U.DataP[idof] * B[idof]
		}
		assert.True(t, near(got, want, 1e-11), "gp %d: %v vs %v", igp, got, want)
	}
}
