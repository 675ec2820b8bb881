package MultiMat

import (
	"github.com/notargets/multimat/DG3D"
)

/*
	Internal-face surface integrals. Faces are walked in face-id order and
	contribute to both adjacent element rows; the Riemann-advected partial
	pressures and the Riemann normal velocity are accumulated into
	riemannDeriv for the non-conservative volume terms, and the Riemann
	velocity samples are collected per element for the least-squares velocity
	polynomial.
*/

func (s *Solver) surfInt(t float64, U, P Fields, R Fields) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
		ndof  = s.Ndof
		rdof  = s.Rdof
	)
	for f := m.Nbfac; f < m.Nface(); f++ {
		var (
			el = m.Esuf[2*f]
			er = m.Esuf[2*f+1]
		)
		ng := DG3D.NGfa(maxInt(s.Ndofel[el], s.Ndofel[er]))
		coordgp, wgp := DG3D.GaussQuadratureTri(ng)

		coordelL := m.CoordEl(el)
		coordelR := m.CoordEl(er)
		detTL := DG3D.Jacobian(coordelL[0], coordelL[1], coordelL[2], coordelL[3])
		detTR := DG3D.Jacobian(coordelR[0], coordelR[1], coordelR[2], coordelR[3])
		coordfa := m.CoordFa(f)

		fn := [3]float64{m.GeoFace.At(f, 1), m.GeoFace.At(f, 2), m.GeoFace.At(f, 3)}

		for igp := 0; igp < ng; igp++ {
			gp := DG3D.EvalGPTri(igp, coordfa, coordgp)

			dofEl := s.dofElLocal(el)
			dofEr := s.dofElLocal(er)

			refGpL := DG3D.RefCoords(gp, coordelL, detTL)
			refGpR := DG3D.RefCoords(gp, coordelR, detTR)

			BL := DG3D.EvalBasis(dofEl, refGpL[0], refGpL[1], refGpL[2])
			BR := DG3D.EvalBasis(dofEr, refGpR[0], refGpR[1], refGpR[2])

			wt := wgp[igp] * m.GeoFace.At(f, 0)

			ugpL := s.EvalPolynomialSol(s.IP.IntSharp, el, dofEl, refGpL, BL, U, P)
			ugpR := s.EvalPolynomialSol(s.IP.IntSharp, er, dofEr, refGpR, BR, U, P)

			fl := s.Flux(s, fn, ugpL, ugpR)

			// surface term, equal and opposite for the conservative part
			for c := 0; c < ncomp; c++ {
				mark := c * ndof
				for idof := 0; idof < s.Ndofel[el]; idof++ {
					R.Add(el, mark+idof, -wt*fl[c]*BL[idof])
				}
				for idof := 0; idof < s.Ndofel[er]; idof++ {
					R.Add(er, mark+idof, wt*fl[c]*BR[idof])
				}
			}

			// gradients of partial pressures; the right element sees the
			// reversed normal
			for k := 0; k < nmat; k++ {
				for idir := 0; idir < 3; idir++ {
					s.riemannDeriv[3*k+idir][el] += wt * fl[ncomp+k] * fn[idir]
					s.riemannDeriv[3*k+idir][er] -= wt * fl[ncomp+k] * fn[idir]
				}
			}

			// divergence of Riemann velocity times basis
			vriem := fl[ncomp+nmat]
			for idof := 0; idof < s.Ndofel[el] && idof < rdof; idof++ {
				s.riemannDeriv[3*nmat+idof][el] += wt * vriem * BL[idof]
			}
			for idof := 0; idof < s.Ndofel[er] && idof < rdof; idof++ {
				s.riemannDeriv[3*nmat+idof][er] -= wt * vriem * BR[idof]
			}

			// Riemann velocity samples for the velocity polynomial
			s.vriemSamples[el] = append(s.vriemSamples[el],
				vriem*fn[0], vriem*fn[1], vriem*fn[2])
			s.vriemLoc[el] = append(s.vriemLoc[el], gp[0], gp[1], gp[2])
			s.vriemSamples[er] = append(s.vriemSamples[er],
				vriem*fn[0], vriem*fn[1], vriem*fn[2])
			s.vriemLoc[er] = append(s.vriemLoc[er], gp[0], gp[1], gp[2])
		}
	}
}

// dofElLocal returns the number of DOFs used to evaluate element solutions:
// for rDG the reconstructed count, otherwise the local adaptive count, with
// P0P1 evaluation promoted to P1 for p-adaptive runs
func (s *Solver) dofElLocal(e int) (dofEl int) {
	if s.Rdof > s.Ndof {
		return s.Rdof
	}
	dofEl = s.Ndofel[e]
	if s.IP.PAdaptive && dofEl == 1 {
		dofEl = 4
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
