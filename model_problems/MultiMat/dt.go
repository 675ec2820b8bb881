package MultiMat

import (
	"math"
)

// TimeStepSize computes the CFL-limited time step from the face-wise
// maximum wave speeds, with the DG order factor 1/(2p+1)
func (s *Solver) TimeStepSize() (mindt float64) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		rdof  = s.Rdof
		nface = m.Nface()
	)
	delt := make([]float64, m.Nelem)

	faceSpeed := func(e int, f int) float64 {
		// cell-average state
		var (
			u = s.P.At(e, VelocityDofIdx(nmat, 0, rdof, 0))
			v = s.P.At(e, VelocityDofIdx(nmat, 1, rdof, 0))
			w = s.P.At(e, VelocityDofIdx(nmat, 2, rdof, 0))
		)
		vn := u*m.GeoFace.At(f, 1) + v*m.GeoFace.At(f, 2) + w*m.GeoFace.At(f, 3)

		// mixture sound speed: a^2 = sum_k(alpha_k rho_k a_k^2) / rho
		var a2, rhob float64
		for k := 0; k < nmat; k++ {
			arho := s.U.At(e, DensityDofIdx(nmat, k, rdof, 0))
			ak := s.Mat[k].SoundSpeed(arho,
				s.P.At(e, PressureDofIdx(nmat, k, rdof, 0)),
				s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0)), k)
			a2 += arho * ak * ak
			rhob += arho
		}
		a := math.Sqrt(a2 / rhob)
		return m.GeoFace.At(f, 0) * (math.Abs(vn) + a)
	}

	for f := 0; f < nface; f++ {
		var (
			el   = m.Esuf[2*f]
			er   = m.Esuf[2*f+1]
			dSVl = faceSpeed(el, f)
			dSVr = dSVl
		)
		if er > -1 {
			dSVr = faceSpeed(er, f)
			delt[er] += math.Max(dSVl, dSVr)
		}
		delt[el] += math.Max(dSVl, dSVr)
	}

	mindt = math.MaxFloat64
	for e := 0; e < m.Nelem; e++ {
		mindt = math.Min(mindt, m.GeoElem.At(e, 0)/delt[e])
	}

	// linear-stability scaling by (2p+1) for the DG polynomial order
	var dgp float64
	switch s.Ndof {
	case 4:
		dgp = 1.0
	case 10:
		dgp = 2.0
	}
	mindt /= 2.0*dgp + 1.0

	return mindt * s.IP.CFL
}
