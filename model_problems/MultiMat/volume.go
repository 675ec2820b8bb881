package MultiMat

import (
	"github.com/notargets/multimat/DG3D"
)

// fluxTerms evaluates the conservative part of the physical flux in the
// three coordinate directions. The volume-fraction components carry no
// conservative flux: their advection is handled entirely by the
// non-conservative terms.
func (s *Solver) fluxTerms(ugp []float64, fl [][3]float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
	)
	vel := [3]float64{
		ugp[ncomp+VelocityIdx(nmat, 0)],
		ugp[ncomp+VelocityIdx(nmat, 1)],
		ugp[ncomp+VelocityIdx(nmat, 2)],
	}
	var pb float64
	for k := 0; k < nmat; k++ {
		pb += ugp[ncomp+PressureIdx(nmat, k)]
	}

	for c := 0; c < ncomp; c++ {
		fl[c][0], fl[c][1], fl[c][2] = 0, 0, 0
	}
	for k := 0; k < nmat; k++ {
		for j := 0; j < 3; j++ {
			fl[DensityIdx(nmat, k)][j] = vel[j] * ugp[DensityIdx(nmat, k)]
			fl[EnergyIdx(nmat, k)][j] = vel[j] *
				(ugp[EnergyIdx(nmat, k)] + ugp[ncomp+PressureIdx(nmat, k)])
		}
		if s.Mat[k].SolidIndex > 0 {
			sx := s.Mat[k].SolidIndex
			for i := 0; i < 3; i++ {
				gdotv := vel[0]*ugp[DeformIdx(nmat, sx, i, 0)] +
					vel[1]*ugp[DeformIdx(nmat, sx, i, 1)] +
					vel[2]*ugp[DeformIdx(nmat, sx, i, 2)]
				for j := 0; j < 3; j++ {
					fl[DeformIdx(nmat, sx, i, j)][j] = gdotv
				}
			}
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			fl[MomentumIdx(nmat, i)][j] = vel[j] * ugp[MomentumIdx(nmat, i)]
		}
		fl[MomentumIdx(nmat, i)][i] += pb
	}
}

// volInt accumulates the flux-divergence volume term for elements with more
// than one local DOF
func (s *Solver) volInt(elFirst, elLast int, U, P Fields, R Fields) {
	var (
		m     = s.Msh
		ncomp = s.Ncomp
		ndof  = s.Ndof
	)
	fl := make([][3]float64, ncomp)

	for e := elFirst; e < elLast; e++ {
		if s.Ndofel[e] <= 1 {
			continue
		}
		ng := DG3D.NGvol(s.Ndofel[e])
		coordgp, wgp := DG3D.GaussQuadratureTet(ng)

		coordel := m.CoordEl(e)
		jacInv := DG3D.InverseJacobian(coordel[0], coordel[1], coordel[2],
			coordel[3])
		dBdx := DG3D.EvalDBdxP1(s.Ndofel[e], jacInv)

		for igp := 0; igp < ng; igp++ {
			if s.Ndofel[e] > 4 {
				DG3D.EvalDBdxP2(coordgp[0][igp], coordgp[1][igp],
					coordgp[2][igp], jacInv, dBdx)
			}
			dofEl := s.dofElLocal(e)
			refGp := [3]float64{coordgp[0][igp], coordgp[1][igp], coordgp[2][igp]}
			B := DG3D.EvalBasis(dofEl, refGp[0], refGp[1], refGp[2])

			wt := wgp[igp] * m.GeoElem.At(e, 0)

			ugp := s.EvalPolynomialSol(s.IP.IntSharp, e, dofEl, refGp, B, U, P)
			s.fluxTerms(ugp, fl)

			for c := 0; c < ncomp; c++ {
				mark := c * ndof
				for idof := 1; idof < s.Ndofel[e]; idof++ {
					R.Add(e, mark+idof, wt*(fl[c][0]*dBdx[0][idof]+
						fl[c][1]*dBdx[1][idof]+fl[c][2]*dBdx[2][idof]))
				}
			}
		}
	}
}
