package DG3D

import (
	"github.com/notargets/multimat/utils"
)

/*
	Taylor basis machinery used by the hierarchical limiters. The Taylor
	basis is built from (xi-xi_c, eta-eta_c, zeta-zeta_c) monomials about the
	element centroid; the second-order modes are shifted by their element
	averages so every mode above the first has zero mean. On the reference
	element the centroid is (1/4, 1/4, 1/4).
*/

// EvalTaylorBasisRefEl evaluates the Taylor basis on the reference element
func EvalTaylorBasisRefEl(ndof int, xi, eta, zeta float64) (B []float64) {
	// Element averages of the quadratic monomials about the centroid,
	// needed to make the P2 Taylor modes zero-mean
	var avg [6]float64
	if ndof > 4 {
		ng := NGvol(ndof)
		coordgp, wgp := GaussQuadratureTet(ng)
		for igp := 0; igp < ng; igp++ {
			dx := coordgp[0][igp] - 0.25
			dy := coordgp[1][igp] - 0.25
			dz := coordgp[2][igp] - 0.25
			avg[0] += wgp[igp] * dx * dx * 0.5
			avg[1] += wgp[igp] * dy * dy * 0.5
			avg[2] += wgp[igp] * dz * dz * 0.5
			avg[3] += wgp[igp] * dx * dy
			avg[4] += wgp[igp] * dx * dz
			avg[5] += wgp[igp] * dy * dz
		}
	}

	B = make([]float64, ndof)
	B[0] = 1.0
	if ndof > 1 {
		B[1] = xi - 0.25
		B[2] = eta - 0.25
		B[3] = zeta - 0.25
	}
	if ndof > 4 {
		B[4] = B[1]*B[1]*0.5 - avg[0]
		B[5] = B[2]*B[2]*0.5 - avg[1]
		B[6] = B[3]*B[3]*0.5 - avg[2]
		B[7] = B[1]*B[2] - avg[3]
		B[8] = B[1]*B[3] - avg[4]
		B[9] = B[2]*B[3] - avg[5]
	}
	return
}

// EvalTaylorBasis evaluates the Taylor basis at physical point x about the
// centroid xc of the element with corner coordinates coordel
func EvalTaylorBasis(ndof int, x, xc [3]float64, coordel [4][3]float64) (B []float64) {
	var avg [6]float64
	if ndof > 4 {
		ng := NGvol(ndof)
		coordgp, wgp := GaussQuadratureTet(ng)
		for igp := 0; igp < ng; igp++ {
			gp := EvalGPTet(igp, coordel, coordgp)
			avg[0] += wgp[igp] * (gp[0] - xc[0]) * (gp[0] - xc[0]) * 0.5
			avg[1] += wgp[igp] * (gp[1] - xc[1]) * (gp[1] - xc[1]) * 0.5
			avg[2] += wgp[igp] * (gp[2] - xc[2]) * (gp[2] - xc[2]) * 0.5
			avg[3] += wgp[igp] * (gp[0] - xc[0]) * (gp[1] - xc[1])
			avg[4] += wgp[igp] * (gp[0] - xc[0]) * (gp[2] - xc[2])
			avg[5] += wgp[igp] * (gp[1] - xc[1]) * (gp[2] - xc[2])
		}
	}

	B = make([]float64, ndof)
	B[0] = 1.0
	if ndof > 1 {
		B[1] = x[0] - xc[0]
		B[2] = x[1] - xc[1]
		B[3] = x[2] - xc[2]
	}
	if ndof > 4 {
		B[4] = B[1]*B[1]*0.5 - avg[0]
		B[5] = B[2]*B[2]*0.5 - avg[1]
		B[6] = B[3]*B[3]*0.5 - avg[2]
		B[7] = B[1]*B[2] - avg[3]
		B[8] = B[1]*B[3] - avg[4]
		B[9] = B[2]*B[3] - avg[5]
	}
	return
}

// TaylorMassMatrixRefEl assembles the (non-diagonal) Taylor mass matrix on
// the reference element by quadrature
func TaylorMassMatrixRefEl(ndof int) (M utils.Matrix) {
	M = utils.NewMatrix(ndof, ndof)
	ng := NGvol(ndof)
	coordgp, wgp := GaussQuadratureTet(ng)
	for igp := 0; igp < ng; igp++ {
		Bt := EvalTaylorBasisRefEl(ndof, coordgp[0][igp], coordgp[1][igp],
			coordgp[2][igp])
		for i := 0; i < ndof; i++ {
			for j := 0; j < ndof; j++ {
				M.Add(i, j, wgp[igp]*Bt[i]*Bt[j])
			}
		}
	}
	return
}

// TaylorMassMatrixInvRefEl returns the inverse of the reference-element
// Taylor mass matrix
func TaylorMassMatrixInvRefEl(ndof int) (Minv utils.Matrix) {
	M := TaylorMassMatrixRefEl(ndof)
	Minv, err := M.Inverse()
	if err != nil {
		panic(err)
	}
	return
}

// DubinerToTaylorRefEl transforms element e's modal coefficients, stored in
// U with component stride rdof, from the Dubiner basis to the Taylor basis
// on the reference element. mtInv is the inverse Taylor mass matrix.
func DubinerToTaylorRefEl(ncomp, e, rdof, dofEl int, mtInv utils.Matrix,
	U utils.Matrix) (unk [][]float64) {
	// unk rows are sized rdof so that callers can address the full mode
	// range of the field; modes above dofEl stay zero
	unk = make([][]float64, ncomp)
	for c := range unk {
		unk[c] = make([]float64, rdof)
	}

	// a p-adaptive element may carry fewer DOFs than the precomputed matrix
	if nr, _ := mtInv.Dims(); nr != dofEl {
		mtInv = TaylorMassMatrixInvRefEl(dofEl)
	}

	ng := NGvol(dofEl)
	coordgp, wgp := GaussQuadratureTet(ng)

	R := make([][]float64, ncomp)
	for c := range R {
		R[c] = make([]float64, dofEl)
	}

	for igp := 0; igp < ng; igp++ {
		Bd := EvalBasis(dofEl, coordgp[0][igp], coordgp[1][igp], coordgp[2][igp])
		Bt := EvalTaylorBasisRefEl(dofEl, coordgp[0][igp], coordgp[1][igp],
			coordgp[2][igp])
		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			var state float64
			for idof := 0; idof < dofEl; idof++ {
				state += U.At(e, mark+idof) * Bd[idof]
			}
			for idof := 0; idof < dofEl; idof++ {
				R[c][idof] += wgp[igp] * state * Bt[idof]
			}
		}
	}

	for c := 0; c < ncomp; c++ {
		for i := 0; i < dofEl; i++ {
			for j := 0; j < dofEl; j++ {
				unk[c][i] += mtInv.At(i, j) * R[c][j]
			}
		}
	}
	return
}

// TaylorToDubinerRefEl transforms the Taylor-basis solution unk back to
// Dubiner coefficients in place, by Gauss projection with the diagonal
// Dubiner mass matrix
func TaylorToDubinerRefEl(ncomp, dofEl int, unk [][]float64) {
	L := MassMatrixDubiner(dofEl, 1.0)

	ng := NGvol(dofEl)
	coordgp, wgp := GaussQuadratureTet(ng)

	R := make([][]float64, ncomp)
	for c := range R {
		R[c] = make([]float64, dofEl)
	}

	for igp := 0; igp < ng; igp++ {
		Bd := EvalBasis(dofEl, coordgp[0][igp], coordgp[1][igp], coordgp[2][igp])
		Bt := EvalTaylorBasisRefEl(dofEl, coordgp[0][igp], coordgp[1][igp],
			coordgp[2][igp])
		for c := 0; c < ncomp; c++ {
			var state float64
			for idof := 0; idof < dofEl; idof++ {
				state += unk[c][idof] * Bt[idof]
			}
			for idof := 0; idof < dofEl; idof++ {
				R[c][idof] += wgp[igp] * state * Bd[idof]
			}
		}
	}

	for c := 0; c < ncomp; c++ {
		for idof := 0; idof < dofEl; idof++ {
			unk[c][idof] = R[c][idof] / L[idof]
		}
	}
}

// InverseBasis re-projects a physical-space Taylor solution unk onto the
// Dubiner basis of element e by Gauss quadrature, overwriting the modal
// coefficients of U (component stride rdof). xc is the element centroid.
func InverseBasis(ncomp, e, rdof int, coordel [4][3]float64, xc [3]float64,
	unk [][]float64, U utils.Matrix) {
	L := MassMatrixDubiner(rdof, 1.0)

	ng := NGvol(rdof)
	coordgp, wgp := GaussQuadratureTet(ng)

	R := make([]float64, ncomp*rdof)

	for igp := 0; igp < ng; igp++ {
		gp := EvalGPTet(igp, coordel, coordgp)
		Bt := EvalTaylorBasis(rdof, gp, xc, coordel)
		Bd := EvalBasis(rdof, coordgp[0][igp], coordgp[1][igp], coordgp[2][igp])

		for c := 0; c < ncomp; c++ {
			var state float64
			for idof := 0; idof < rdof; idof++ {
				state += unk[c][idof] * Bt[idof]
			}
			mark := c * rdof
			for idof := 0; idof < rdof; idof++ {
				R[mark+idof] += wgp[igp] * state * Bd[idof]
			}
		}
	}

	for c := 0; c < ncomp; c++ {
		mark := c * rdof
		for idof := 0; idof < rdof; idof++ {
			U.Set(e, mark+idof, R[mark+idof]/L[idof])
		}
	}
}
