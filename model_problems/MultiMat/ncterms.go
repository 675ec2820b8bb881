package MultiMat

import (
	"math"

	"github.com/notargets/multimat/DG3D"
	"github.com/notargets/multimat/utils"
)

/*
	Volume integrals of the non-conservative products in the volume-fraction
	and energy equations, the least-squares Riemann-velocity polynomial they
	need, and the finite-rate pressure relaxation source.
*/

// solveVriem fits, per element, a trilinear polynomial v(x) = a0 + a.x to
// the Riemann velocity samples collected at all face quadrature points, by
// solving the 4x4 normal equations with an LU decomposition
func (s *Solver) solveVriem() {
	for e := 0; e < s.Msh.Nelem; e++ {
		var (
			npoin = len(s.vriemLoc[e]) / 3
			A     = make([][4]float64, npoin)
		)
		for p := 0; p < npoin; p++ {
			A[p][0] = 1.0
			A[p][1] = s.vriemLoc[e][3*p]
			A[p][2] = s.vriemLoc[e][3*p+1]
			A[p][3] = s.vriemLoc[e][3*p+2]
		}

		B := utils.NewMatrix(4, 4)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				v := 0.0
				for p := 0; p < npoin; p++ {
					v += A[p][i] * A[p][j]
				}
				B.Set(i, j, v)
			}
		}

		for idir := 0; idir < 3; idir++ {
			u := make([]float64, 4)
			for i := 0; i < 4; i++ {
				for p := 0; p < npoin; p++ {
					u[i] += A[p][i] * s.vriemSamples[e][3*p+idir]
				}
			}
			x, err := utils.LUSolve(B, u)
			if err != nil {
				panic(err)
			}
			copy(s.vriempoly[e][4*idir:4*idir+4], x)
		}
	}
}

// nonConservativeInt accumulates the volume integrals of the
// non-conservative terms in the volume-fraction and energy equations
func (s *Solver) nonConservativeInt(elFirst, elLast int, U, P Fields, R Fields) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
		rdof  = s.Rdof
	)
	for e := elFirst; e < elLast; e++ {
		ng := DG3D.NGvol(s.Ndofel[e])
		coordgp, wgp := DG3D.GaussQuadratureTet(ng)

		coordel := m.CoordEl(e)
		jacInv := DG3D.InverseJacobian(coordel[0], coordel[1], coordel[2],
			coordel[3])

		var dBdx [3][]float64
		if s.Ndofel[e] > 1 {
			dBdx = DG3D.EvalDBdxP1(s.Ndofel[e], jacInv)
		}

		for igp := 0; igp < ng; igp++ {
			if s.Ndofel[e] > 4 {
				DG3D.EvalDBdxP2(coordgp[0][igp], coordgp[1][igp],
					coordgp[2][igp], jacInv, dBdx)
			}
			dofEl := s.dofElLocal(e)
			refGp := [3]float64{coordgp[0][igp], coordgp[1][igp], coordgp[2][igp]}
			B := DG3D.EvalBasis(dofEl, refGp[0], refGp[1], refGp[2])

			wt := wgp[igp] * m.GeoElem.At(e, 0)

			ugp := EvalState(ncomp, rdof, dofEl, e, U, B, 0, ncomp-1)
			pgp := EvalState(s.Nprim, rdof, dofEl, e, P, B, 0, s.Nprim-1)

			var rhob float64
			for k := 0; k < nmat; k++ {
				rhob += ugp[DensityIdx(nmat, k)]
			}
			vel := [3]float64{pgp[VelocityIdx(nmat, 0)],
				pgp[VelocityIdx(nmat, 1)], pgp[VelocityIdx(nmat, 2)]}

			// mass fractions and total partial-pressure gradient
			ymat := make([]float64, nmat)
			var dap [3]float64
			for k := 0; k < nmat; k++ {
				ymat[k] = ugp[DensityIdx(nmat, k)] / rhob
				for idir := 0; idir < 3; idir++ {
					dap[idir] += s.riemannDeriv[3*k+idir][e]
				}
			}

			ncf := make([]float64, ncomp)
			for k := 0; k < nmat; k++ {
				ncf[VolfracIdx(nmat, k)] = ugp[VolfracIdx(nmat, k)] *
					s.riemannDeriv[3*nmat][e]
				for idir := 0; idir < 3; idir++ {
					ncf[EnergyIdx(nmat, k)] -= vel[idir] *
						(ymat[k]*dap[idir] - s.riemannDeriv[3*k+idir][e])
				}
			}

			// Riemann velocity polynomial at the quadrature point
			var vriem [3]float64
			if s.Ndofel[e] > 1 {
				gp := DG3D.EvalGPTet(igp, coordel, coordgp)
				for idir := 0; idir < 3; idir++ {
					mark := idir * 4
					vriem[idir] = s.vriempoly[e][mark]
					for j := 0; j < 3; j++ {
						vriem[idir] += s.vriempoly[e][mark+1+j] * gp[j]
					}
				}
			}

			s.updateRhsNonCons(e, wt, ugp, B, dBdx, vriem, ncf, R)
		}
	}
}

// updateRhsNonCons adds the non-conservative term integrals to the rhs
func (s *Solver) updateRhsNonCons(e int, wt float64, ugp, B []float64,
	dBdx [3][]float64, vriem [3]float64, ncf []float64, R Fields) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		ndof  = s.Ndof
	)
	for c := 0; c < ncomp; c++ {
		R.Add(e, c*ndof, wt*ncf[c])
	}

	if s.Ndofel[e] > 1 {
		// volume-fraction equation: integration by parts of alpha*div(v)
		// using the Riemann velocity polynomial inside the element
		for k := 0; k < nmat; k++ {
			mark := VolfracIdx(nmat, k) * ndof
			for idof := 1; idof < s.Ndofel[e]; idof++ {
				nc := ugp[VolfracIdx(nmat, k)] *
					(s.riemannDeriv[3*nmat][e]*B[idof] +
						vriem[0]*dBdx[0][idof] +
						vriem[1]*dBdx[1][idof] +
						vriem[2]*dBdx[2][idof])
				R.Add(e, mark+idof, wt*nc)
			}
		}
		for c := nmat; c < ncomp; c++ {
			mark := c * ndof
			for idof := 1; idof < s.Ndofel[e]; idof++ {
				R.Add(e, mark+idof, wt*ncf[c]*B[idof])
			}
		}
	}
}

// pressureRelaxationInt accumulates the finite-rate pressure relaxation
// source terms
func (s *Solver) pressureRelaxationInt(elFirst, elLast int, U, P Fields,
	R Fields) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
		rdof  = s.Rdof
		ct    = s.IP.PrelaxTimescale
	)
	apmat := make([]float64, nmat)
	kmat := make([]float64, nmat)

	for e := elFirst; e < elLast; e++ {
		dx := m.GeoElem.At(e, 4) / 2.0
		ng := DG3D.NGvol(s.Ndofel[e])
		coordgp, wgp := DG3D.GaussQuadratureTet(ng)

		for igp := 0; igp < ng; igp++ {
			dofEl := s.dofElLocal(e)
			B := DG3D.EvalBasis(dofEl, coordgp[0][igp], coordgp[1][igp],
				coordgp[2][igp])

			wt := wgp[igp] * m.GeoElem.At(e, 0)

			ugp := EvalState(ncomp, rdof, dofEl, e, U, B, 0, ncomp-1)
			pgp := EvalState(s.Nprim, rdof, dofEl, e, P, B, 0, s.Nprim-1)

			var pb, nume, deno, trelax float64
			for k := 0; k < nmat; k++ {
				arhomat := ugp[DensityIdx(nmat, k)]
				alphamat := ugp[VolfracIdx(nmat, k)]
				apmat[k] = pgp[PressureIdx(nmat, k)]
				amat := s.Mat[k].SoundSpeed(arhomat, apmat[k], alphamat, k)
				kmat[k] = arhomat * amat * amat
				pb += apmat[k]

				trelax = math.Max(trelax, ct*dx/amat)
				nume += alphamat * apmat[k] / kmat[k]
				deno += alphamat * alphamat / kmat[k]
			}
			pRelax := nume / deno

			for k := 0; k < nmat; k++ {
				sAlpha := (apmat[k] - pRelax*ugp[VolfracIdx(nmat, k)]) *
					(ugp[VolfracIdx(nmat, k)] / kmat[k]) / trelax

				mark := VolfracIdx(nmat, k) * s.Ndof
				R.Add(e, mark, wt*sAlpha)
				marke := EnergyIdx(nmat, k) * s.Ndof
				R.Add(e, marke, -wt*pb*sAlpha)
				if s.Ndofel[e] > 1 {
					for idof := 1; idof < 4 && idof < s.Ndofel[e]; idof++ {
						R.Add(e, mark+idof, wt*sAlpha*B[idof])
						R.Add(e, marke+idof, -wt*pb*sAlpha*B[idof])
					}
				}
			}
		}
	}
}
