package MultiMat

import (
	"fmt"

	"github.com/notargets/multimat/DG3D"
)

// FieldNames returns the cell-field labels: F<k> volume fraction, D<k>
// material density, M<d> momentum, E<k> material energy, U<d> velocity,
// P<k> material pressure
func (s *Solver) FieldNames() (names []string) {
	for k := 0; k < s.Nmat; k++ {
		names = append(names, fmt.Sprintf("F%d", k+1))
	}
	for k := 0; k < s.Nmat; k++ {
		names = append(names, fmt.Sprintf("D%d", k+1))
	}
	for d := 0; d < 3; d++ {
		names = append(names, fmt.Sprintf("M%d", d+1))
	}
	for k := 0; k < s.Nmat; k++ {
		names = append(names, fmt.Sprintf("E%d", k+1))
	}
	for d := 0; d < 3; d++ {
		names = append(names, fmt.Sprintf("U%d", d+1))
	}
	for k := 0; k < s.Nmat; k++ {
		names = append(names, fmt.Sprintf("P%d", k+1))
	}
	return
}

// CellAverages returns the cell-average values in FieldNames order for one
// element
func (s *Solver) CellAverages(e int) (vals []float64) {
	var (
		nmat = s.Nmat
		rdof = s.Rdof
	)
	for k := 0; k < nmat; k++ {
		vals = append(vals, s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0)))
	}
	for k := 0; k < nmat; k++ {
		al := s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
		vals = append(vals, s.U.At(e, DensityDofIdx(nmat, k, rdof, 0))/al)
	}
	for d := 0; d < 3; d++ {
		vals = append(vals, s.U.At(e, MomentumDofIdx(nmat, d, rdof, 0)))
	}
	for k := 0; k < nmat; k++ {
		al := s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
		vals = append(vals, s.U.At(e, EnergyDofIdx(nmat, k, rdof, 0))/al)
	}
	for d := 0; d < 3; d++ {
		vals = append(vals, s.P.At(e, VelocityDofIdx(nmat, d, rdof, 0)))
	}
	for k := 0; k < nmat; k++ {
		al := s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
		vals = append(vals, s.P.At(e, PressureDofIdx(nmat, k, rdof, 0))/al)
	}
	return
}

// HistOutput evaluates (bulk density, velocity, bulk total energy, bulk
// pressure) of the high-order solution at a probe point inside element e
func (s *Solver) HistOutput(e int, pt [3]float64) (out [6]float64) {
	var (
		m    = s.Msh
		nmat = s.Nmat
		rdof = s.Rdof
	)
	coordel := m.CoordEl(e)
	detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])
	ref := DG3D.RefCoords(pt, coordel, detT)
	B := DG3D.EvalBasis(rdof, ref[0], ref[1], ref[2])

	uhp := EvalState(s.Ncomp, rdof, rdof, e, s.U, B, 0, s.Ncomp-1)
	php := EvalState(s.Nprim, rdof, rdof, e, s.P, B, 0, s.Nprim-1)

	for k := 0; k < nmat; k++ {
		out[0] += uhp[DensityIdx(nmat, k)]
		out[4] += uhp[EnergyIdx(nmat, k)]
		out[5] += php[PressureIdx(nmat, k)]
	}
	out[1] = php[VelocityIdx(nmat, 0)]
	out[2] = php[VelocityIdx(nmat, 1)]
	out[3] = php[VelocityIdx(nmat, 2)]
	return
}

// FindElement locates the element containing a physical point by testing
// reference coordinates; used by history probes
func (s *Solver) FindElement(pt [3]float64) (e int, found bool) {
	m := s.Msh
	const tol = 1.0e-10
	for e = 0; e < m.Nelem; e++ {
		coordel := m.CoordEl(e)
		detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])
		ref := DG3D.RefCoords(pt, coordel, detT)
		if ref[0] >= -tol && ref[1] >= -tol && ref[2] >= -tol &&
			ref[0]+ref[1]+ref[2] <= 1.0+tol {
			return e, true
		}
	}
	return -1, false
}
