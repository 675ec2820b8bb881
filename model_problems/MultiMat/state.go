package MultiMat

import (
	"math"
)

// EvalState computes the components [lo, hi] of the state at a point from
// element e's modal coefficients and the basis values B. Components outside
// [lo, hi] are left at zero. Summation is left to right over the modes.
func EvalState(ncomp, rdof, dofEl, e int, U Fields, B []float64,
	lo, hi int) (state []float64) {
	if ncomp == 0 {
		return
	}
	state = make([]float64, ncomp)
	for c := lo; c <= hi; c++ {
		mark := c * rdof
		state[c] = U.At(e, mark)
		for idof := 1; idof < dofEl; idof++ {
			state[c] += U.At(e, mark+idof) * B[idof]
		}
	}
	return
}

// InterfaceIndicator checks the cell-average volume fractions for a material
// interface. matInt is filled per material.
func InterfaceIndicator(nmat int, al []float64, matInt []bool) (intInd bool) {
	const alEps = 1.0e-08
	var (
		loLim = 2.0 * alEps
		hiLim = 1.0 - 2.0*alEps
	)
	almax := 0.0
	for k := 0; k < nmat; k++ {
		if al[k] > almax {
			almax = al[k]
		}
		matInt[k] = al[k] > loLim && al[k] < hiLim
	}
	return almax > loLim && almax < hiLim
}

// EvalPolynomialSol evaluates the full appended state (conserved then
// primitive) at a reference point of element e. When interface compression
// is active (intsharp > 0) and the cell is an interface cell, the volume
// fractions are replaced by the THINC reconstruction and partial densities,
// energies and pressures are rebuilt consistently from the cell averages.
func (s *Solver) EvalPolynomialSol(intsharp, e, dofEl int, refGp [3]float64,
	B []float64, U, P Fields) (state []float64) {
	var (
		ncomp = s.Ncomp
		nprim = s.Nprim
		rdof  = s.Rdof
	)
	ugp := EvalState(ncomp, rdof, dofEl, e, U, B, 0, ncomp-1)
	pgp := EvalState(nprim, rdof, dofEl, e, P, B, 0, nprim-1)

	state = append(ugp, pgp...)

	if intsharp > 0 {
		matInt := make([]bool, s.Nmat)
		alAvg := make([]float64, s.Nmat)
		for k := 0; k < s.Nmat; k++ {
			alAvg[k] = U.At(e, VolfracDofIdx(s.Nmat, k, rdof, 0))
		}
		if InterfaceIndicator(s.Nmat, alAvg, matInt) {
			s.thincReco(e, refGp, matInt, U, P, state)
		}
	}
	return
}

// thincReco applies the algebraic THINC interface reconstruction to the
// appended state vector at reference point refGp of element e. The tanh
// profile orientation comes from the reference-space gradient of each volume
// fraction; its center is fixed by the cell average. Partial densities,
// energies and pressures follow the compressed volume fraction so that
// rho_k, e_k and p_k are unchanged.
func (s *Solver) thincReco(e int, refGp [3]float64, matInt []bool,
	U, P Fields, state []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		rdof  = s.Rdof
		beta  = s.IP.IntSharpParam
	)
	// reference-space gradients of the P1 Dubiner modes
	dBdxi := [3][3]float64{{2, 1, 1}, {0, 3, 1}, {0, 0, 4}}

	const alMin = 1.0e-14

	for k := 0; k < nmat; k++ {
		if !matInt[k] {
			continue
		}
		alAvg := math.Min(math.Max(
			U.At(e, VolfracDofIdx(nmat, k, rdof, 0)), alMin), 1.0-alMin)

		// interface normal in reference space from the alpha gradient
		var g [3]float64
		for i := 0; i < 3; i++ {
			for ib := 0; ib < 3; ib++ {
				g[i] += U.At(e, VolfracDofIdx(nmat, k, rdof, ib+1)) * dBdxi[ib][i]
			}
		}
		gnorm := math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2])
		if gnorm < 1.0e-10 {
			continue
		}

		// center the profile so the value at the centroid matches the average
		arg := math.Min(math.Max(2.0*alAvg-1.0, -1.0+1.0e-12), 1.0-1.0e-12)
		d := math.Atanh(arg)
		var xn float64
		for i := 0; i < 3; i++ {
			xn += g[i] / gnorm * (refGp[i] - 0.25)
		}
		alGp := 0.5 * (1.0 + math.Tanh(beta*xn+d))
		alGp = math.Min(math.Max(alGp, alMin), 1.0-alMin)

		ratio := alGp / alAvg
		state[VolfracIdx(nmat, k)] = alGp
		state[DensityIdx(nmat, k)] =
			ratio * U.At(e, DensityDofIdx(nmat, k, rdof, 0))
		state[EnergyIdx(nmat, k)] =
			ratio * U.At(e, EnergyDofIdx(nmat, k, rdof, 0))
		state[ncomp+PressureIdx(nmat, k)] =
			ratio * P.At(e, PressureDofIdx(nmat, k, rdof, 0))
	}

	// renormalize the volume fractions to unit sum
	var alsum float64
	for k := 0; k < nmat; k++ {
		alsum += state[VolfracIdx(nmat, k)]
	}
	for k := 0; k < nmat; k++ {
		state[VolfracIdx(nmat, k)] /= alsum
	}
}
