package MultiMat

import (
	"github.com/notargets/multimat/DG3D"
	"github.com/notargets/multimat/utils"
)

/*
	Least-squares P0->P1 reconstruction over the extended nodal stencil
	(elements surrounding the points of each element), with inverse-distance
	weights and boundary-condition ghost states at boundary face centroids.
	The physical gradients are transformed to Dubiner coefficients by solving
	the 3x3 system of P1 basis-function gradients.
*/

// bndFace records a boundary face of an element together with its BC kind
type bndFace struct {
	f    int
	kind BCKind
}

// Reconstruct fills the P1 DOFs of the conserved and primitive fields
// according to the scheme: all components for P0P1 and for p-adaptive
// elements at P0, only the volume fractions for DG above P0P1
func (s *Solver) Reconstruct(t float64, U, P Fields) {
	var (
		nmat  = s.Nmat
		isP0P1 = s.Rdof == 4 && s.Ndof == 1
	)
	if s.Rdof == 1 {
		return
	}

	for e := 0; e < s.Msh.Nelem; e++ {
		lo, hi := VolfracIdx(nmat, 0), VolfracIdx(nmat, nmat-1)
		if isP0P1 || (s.IP.PAdaptive && s.Ndofel[e] == 1) {
			lo, hi = 0, s.Ncomp-1
		}
		s.recoLeastSqExtStencil(e, U, lo, hi, true, t)
		if isP0P1 {
			s.recoLeastSqExtStencil(e, P, 0, s.Nprim-1, false, t)
		}
	}
}

// recoLeastSqExtStencil reconstructs components [lo, hi] of element e in W
// from the cell averages of the extended nodal stencil
func (s *Solver) recoLeastSqExtStencil(e int, W Fields, lo, hi int,
	isConserved bool, t float64) {
	var (
		m    = s.Msh
		rdof = s.Rdof
		xe   = [3]float64{m.GeoElem.At(e, 1), m.GeoElem.At(e, 2),
			m.GeoElem.At(e, 3)}
		A [3][3]float64
		b = make([][3]float64, hi-lo+1)
	)

	// gather the nodal stencil, excluding e itself
	seen := map[int]bool{e: true}
	for i := 0; i < 4; i++ {
		for _, n := range m.Esup[m.Inpoel[4*e+i]] {
			if seen[n] {
				continue
			}
			seen[n] = true

			dx := [3]float64{m.GeoElem.At(n, 1) - xe[0],
				m.GeoElem.At(n, 2) - xe[1], m.GeoElem.At(n, 3) - xe[2]}
			w2 := 1.0 / (dx[0]*dx[0] + dx[1]*dx[1] + dx[2]*dx[2])

			for idir := 0; idir < 3; idir++ {
				for jdir := 0; jdir < 3; jdir++ {
					A[idir][jdir] += w2 * dx[idir] * dx[jdir]
				}
				for c := lo; c <= hi; c++ {
					du := W.At(n, c*rdof) - W.At(e, c*rdof)
					b[c-lo][idir] += w2 * dx[idir] * du
				}
			}
		}
	}

	// boundary ghosts from the BC state functions at face centroids
	for _, bf := range s.bndFacesOfEl[e] {
		fc := [3]float64{m.GeoFace.At(bf.f, 4), m.GeoFace.At(bf.f, 5),
			m.GeoFace.At(bf.f, 6)}
		fn := [3]float64{m.GeoFace.At(bf.f, 1), m.GeoFace.At(bf.f, 2),
			m.GeoFace.At(bf.f, 3)}

		// cell-average appended state of e
		ul := make([]float64, s.Ncomp+s.Nprim)
		for c := 0; c < s.Ncomp; c++ {
			ul[c] = s.U.At(e, c*rdof)
		}
		for c := 0; c < s.Nprim; c++ {
			ul[s.Ncomp+c] = s.P.At(e, c*rdof)
		}
		ur := stateFunction(bf.kind)(s, ul, fc[0], fc[1], fc[2], t, fn)

		dx := [3]float64{fc[0] - xe[0], fc[1] - xe[1], fc[2] - xe[2]}
		w2 := 1.0 / (dx[0]*dx[0] + dx[1]*dx[1] + dx[2]*dx[2])

		off := 0
		if !isConserved {
			off = s.Ncomp
		}
		for idir := 0; idir < 3; idir++ {
			for jdir := 0; jdir < 3; jdir++ {
				A[idir][jdir] += w2 * dx[idir] * dx[jdir]
			}
			for c := lo; c <= hi; c++ {
				du := ur[off+c] - ul[off+c]
				b[c-lo][idir] += w2 * dx[idir] * du
			}
		}
	}

	// solve for the physical gradients and transform to Dubiner DOFs
	coordel := m.CoordEl(e)
	jacInv := DG3D.InverseJacobian(coordel[0], coordel[1], coordel[2],
		coordel[3])
	dBdx := DG3D.EvalDBdxP1(4, jacInv)
	T := [3][3]float64{
		{dBdx[0][1], dBdx[0][2], dBdx[0][3]},
		{dBdx[1][1], dBdx[1][2], dBdx[1][3]},
		{dBdx[2][1], dBdx[2][2], dBdx[2][3]},
	}

	for c := lo; c <= hi; c++ {
		grad, ok := utils.Cramer3(A, b[c-lo], 1.0e-30)
		if !ok {
			continue
		}
		ux, ok := utils.Cramer3(T, grad, 1.0e-30)
		if !ok {
			continue
		}
		mark := c * rdof
		W.Set(e, mark+1, ux[0])
		W.Set(e, mark+2, ux[1])
		W.Set(e, mark+3, ux[2])
	}
}
