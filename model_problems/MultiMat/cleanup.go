package MultiMat

import (
	"fmt"
	"math"

	"github.com/notargets/multimat/DG3D"
)

/*
	Trace-material cleanup and the conservative re-projection that restores
	consistency between independently limited primitive and conserved fields.
*/

// CleanTraceMaterial resets the thermodynamic state of materials present in
// trace quantities to the majority material's pressure, conserving the bulk
// mixture invariants. A negative partial density after cleanup is a fatal
// numerical failure.
func (s *Solver) CleanTraceMaterial() {
	var (
		m    = s.Msh
		nmat = s.Nmat
		rdof = s.Rdof
		U    = s.U
		P    = s.P
	)
	const alEps = 1.0e-02

	for e := 0; e < m.Nelem; e++ {
		// majority material
		almax, kmax := 0.0, 0
		for k := 0; k < nmat; k++ {
			al := U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
			if al > almax {
				almax, kmax = al, k
			}
		}

		u := P.At(e, VelocityDofIdx(nmat, 0, rdof, 0))
		v := P.At(e, VelocityDofIdx(nmat, 1, rdof, 0))
		w := P.At(e, VelocityDofIdx(nmat, 2, rdof, 0))
		pmax := P.At(e, PressureDofIdx(nmat, kmax, rdof, 0)) / almax
		tmax := s.Mat[kmax].Temperature(
			U.At(e, DensityDofIdx(nmat, kmax, rdof, 0)), u, v, w,
			U.At(e, EnergyDofIdx(nmat, kmax, rdof, 0)), almax)

		pTarget := math.Max(pmax, 1.0e-14)

		// 1. correct minority materials, accumulating the volume and energy
		// changes to flux into the majority material
		var dAl, dArE float64
		for k := 0; k < nmat; k++ {
			if k == kmax {
				continue
			}
			alk := U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
			pk := P.At(e, PressureDofIdx(nmat, k, rdof, 0)) / alk
			pck := s.Mat[k].PStiff

			if alk > 0.0 {
				if alk < alEps || pk+pck < 0.0 {
					rhomat := U.At(e, DensityDofIdx(nmat, k, rdof, 0)) / alk
					rhoEmat := s.Mat[k].TotalEnergy(rhomat, u, v, w, pTarget)

					dArE += U.At(e, EnergyDofIdx(nmat, k, rdof, 0)) -
						alk*rhoEmat

					U.Set(e, EnergyDofIdx(nmat, k, rdof, 0), alk*rhoEmat)
					P.Set(e, PressureDofIdx(nmat, k, rdof, 0), alk*pTarget)
					for i := 1; i < rdof; i++ {
						U.Set(e, EnergyDofIdx(nmat, k, rdof, i), 0.0)
						P.Set(e, PressureDofIdx(nmat, k, rdof, i), 0.0)
					}
				}
			} else {
				// unbounded volume fraction: reset to a trace of majority
				// temperature material
				rhok := s.Mat[k].Density(pTarget, tmax)
				dAl += alk - 1.0e-14
				U.Set(e, VolfracDofIdx(nmat, k, rdof, 0), 1.0e-14)
				U.Set(e, DensityDofIdx(nmat, k, rdof, 0), 1.0e-14*rhok)
				U.Set(e, EnergyDofIdx(nmat, k, rdof, 0),
					1.0e-14*s.Mat[k].TotalEnergy(rhok, u, v, w, pTarget))
				P.Set(e, PressureDofIdx(nmat, k, rdof, 0), 1.0e-14*pTarget)
				for i := 1; i < rdof; i++ {
					U.Set(e, VolfracDofIdx(nmat, k, rdof, i), 0.0)
					U.Set(e, DensityDofIdx(nmat, k, rdof, i), 0.0)
					U.Set(e, EnergyDofIdx(nmat, k, rdof, i), 0.0)
					P.Set(e, PressureDofIdx(nmat, k, rdof, i), 0.0)
				}
			}
		}

		// 2. flux the changes into the majority material
		U.Add(e, VolfracDofIdx(nmat, kmax, rdof, 0), dAl)
		U.Add(e, EnergyDofIdx(nmat, kmax, rdof, 0), dArE)
		P.Set(e, PressureDofIdx(nmat, kmax, rdof, 0), s.Mat[kmax].Pressure(
			U.At(e, DensityDofIdx(nmat, kmax, rdof, 0)), u, v, w,
			U.At(e, EnergyDofIdx(nmat, kmax, rdof, 0)),
			U.At(e, VolfracDofIdx(nmat, kmax, rdof, 0)), kmax))

		// enforce unit sum of volume fractions
		var alsum float64
		for k := 0; k < nmat; k++ {
			alsum += U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
		}
		for k := 0; k < nmat; k++ {
			U.Set(e, VolfracDofIdx(nmat, k, rdof, 0),
				U.At(e, VolfracDofIdx(nmat, k, rdof, 0))/alsum)
			U.Set(e, DensityDofIdx(nmat, k, rdof, 0),
				U.At(e, DensityDofIdx(nmat, k, rdof, 0))/alsum)
			U.Set(e, EnergyDofIdx(nmat, k, rdof, 0),
				U.At(e, EnergyDofIdx(nmat, k, rdof, 0))/alsum)
			P.Set(e, PressureDofIdx(nmat, k, rdof, 0),
				P.At(e, PressureDofIdx(nmat, k, rdof, 0))/alsum)
		}

		pmax = P.At(e, PressureDofIdx(nmat, kmax, rdof, 0)) /
			U.At(e, VolfracDofIdx(nmat, kmax, rdof, 0))

		// check for unphysical state
		for k := 0; k < nmat; k++ {
			arho := U.At(e, DensityDofIdx(nmat, k, rdof, 0))
			if arho < 0.0 {
				panic(fmt.Errorf("negative partial density in element %d: "+
					"centroid (%v, %v, %v), material %d, volume fraction %v, "+
					"partial density %v, partial pressure %v, majority "+
					"pressure %v, majority temperature %v, velocity %v,%v,%v",
					e, m.GeoElem.At(e, 1), m.GeoElem.At(e, 2),
					m.GeoElem.At(e, 3), k,
					U.At(e, VolfracDofIdx(nmat, k, rdof, 0)), arho,
					P.At(e, PressureDofIdx(nmat, k, rdof, 0)), pmax, tmax,
					u, v, w))
			}
			if s.Mat[k].SolidIndex > 0 {
				s.checkDeformGrad(e, k)
			}
		}
	}
}

// checkDeformGrad verifies det(g) > 0 for a solid material's cell-average
// inverse deformation gradient
func (s *Solver) checkDeformGrad(e, k int) {
	var (
		nmat = s.Nmat
		rdof = s.Rdof
		sx   = s.Mat[k].SolidIndex
		g    [3][3]float64
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			g[i][j] = s.U.At(e, DeformIdx(nmat, sx, i, j)*rdof)
		}
	}
	det := g[0][0]*(g[1][1]*g[2][2]-g[1][2]*g[2][1]) -
		g[0][1]*(g[1][0]*g[2][2]-g[1][2]*g[2][0]) +
		g[0][2]*(g[1][0]*g[2][1]-g[1][1]*g[2][0])
	if det <= 0.0 {
		panic(fmt.Errorf("non-positive deformation gradient determinant %v "+
			"for solid material %d in element %d", det, k, e))
	}
}

// CorrectConserv re-projects the material energies and the bulk momentum
// from the limited primitives so that the two independently limited fields
// are consistent. The cell averages are not touched, which preserves
// conservation exactly.
func (s *Solver) CorrectConserv() {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
		nprim = s.Nprim
		rdof  = s.Rdof
	)
	if rdof == 1 {
		return
	}

	for e := 0; e < m.Nelem; e++ {
		L := DG3D.MassMatrixDubiner(rdof, m.GeoElem.At(e, 0))

		R := make([]float64, (nmat+3)*rdof)

		ng := DG3D.NGvol(rdof)
		coordgp, wgp := DG3D.GaussQuadratureTet(ng)

		for igp := 0; igp < ng; igp++ {
			B := DG3D.EvalBasis(rdof, coordgp[0][igp], coordgp[1][igp],
				coordgp[2][igp])
			w := wgp[igp] * m.GeoElem.At(e, 0)

			ugp := EvalState(ncomp, rdof, rdof, e, s.U, B, 0, ncomp-1)
			pgp := EvalState(nprim, rdof, rdof, e, s.P, B, 0, nprim-1)

			var rhob float64
			for k := 0; k < nmat; k++ {
				rhob += ugp[DensityIdx(nmat, k)]
			}
			vel := [3]float64{pgp[VelocityIdx(nmat, 0)],
				pgp[VelocityIdx(nmat, 1)], pgp[VelocityIdx(nmat, 2)]}

			sv := make([]float64, nmat+3)
			for idir := 0; idir < 3; idir++ {
				sv[nmat+idir] = rhob * vel[idir]
			}
			for k := 0; k < nmat; k++ {
				alphamat := ugp[VolfracIdx(nmat, k)]
				rhomat := ugp[DensityIdx(nmat, k)] / alphamat
				premat := pgp[PressureIdx(nmat, k)] / alphamat
				sv[k] = alphamat * s.Mat[k].TotalEnergy(rhomat, vel[0],
					vel[1], vel[2], premat)
			}

			for k := 0; k < nmat+3; k++ {
				mark := k * rdof
				for idof := 0; idof < rdof; idof++ {
					R[mark+idof] += w * sv[k] * B[idof]
				}
			}
		}

		// overwrite the high-order DOFs only: the P0 modes stay
		for k := 0; k < nmat; k++ {
			mark := k * rdof
			for idof := 1; idof < rdof; idof++ {
				s.U.Set(e, EnergyDofIdx(nmat, k, rdof, idof),
					R[mark+idof]/L[idof])
			}
		}
		for idir := 0; idir < 3; idir++ {
			mark := (nmat + idir) * rdof
			for idof := 1; idof < rdof; idof++ {
				s.U.Set(e, MomentumDofIdx(nmat, idir, rdof, idof),
					R[mark+idof]/L[idof])
			}
		}
	}
}
