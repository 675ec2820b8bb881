package MultiMat

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/multimat/DG3D"
	"github.com/notargets/multimat/DG3D/mesh"
)

type LimiterType uint

const (
	LIMITER_None LimiterType = iota
	LIMITER_WENOP1
	LIMITER_SuperbeeP1
	LIMITER_VertexBasedP1
)

var LimiterNames = map[string]LimiterType{
	"nolimiter":     LIMITER_None,
	"wenop1":        LIMITER_WENOP1,
	"superbeep1":    LIMITER_SuperbeeP1,
	"vertexbasedp1": LIMITER_VertexBasedP1,
}

func NewLimiterType(label string) (lt LimiterType) {
	var ok bool
	if lt, ok = LimiterNames[strings.ToLower(label)]; !ok {
		panic(fmt.Errorf("unable to use limiter named %s", label))
	}
	return
}

// Reference-element vertex coordinates, used to evaluate nodal solution
// values in the Taylor basis
var refNodes = [4][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// shockDetectionThreshold is the discontinuity-indicator cutoff above which
// a cell is marked as containing a shock
var shockDetectionThreshold = math.Pow(10, -5.7)

// MarkShockCells computes the interface-condition discontinuity indicator:
// the jump in the bulk mass flux across each internal face, integrated over
// the face and accumulated to both neighbors
func (s *Solver) MarkShockCells(U, P Fields) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
	)
	ic := make([]float64, m.Nelem)

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

			stateL := s.EvalPolynomialSol(s.IP.IntSharp, el, dofEl, refGpL, BL, U, P)
			stateR := s.EvalPolynomialSol(s.IP.IntSharp, er, dofEr, refGpR, BR, U, P)

			var rhol, rhor float64
			for k := 0; k < nmat; k++ {
				rhol += stateL[DensityIdx(nmat, k)]
				rhor += stateR[DensityIdx(nmat, k)]
			}
			var fluxl, fluxr float64
			for i := 0; i < 3; i++ {
				fluxl += rhol * stateL[ncomp+VelocityIdx(nmat, i)] * fn[i]
				fluxr += rhor * stateR[ncomp+VelocityIdx(nmat, i)] * fn[i]
			}
			rhs := wt * math.Abs(fluxl-fluxr)
			ic[el] += rhs
			ic[er] += rhs
		}
	}

	for e := 0; e < m.Nelem; e++ {
		if s.IP.ShockDetection && s.Ndofel[e] > 1 {
			// normalize by the element volume
			if ic[e]/m.GeoElem.At(e, 0) > shockDetectionThreshold {
				s.Shockmarker[e] = 1
			} else {
				s.Shockmarker[e] = 0
			}
		} else {
			// If P0P1 or if shock detection is off, the limiter always runs
			s.Shockmarker[e] = 1
		}
	}
}

// Limit applies the configured limiter to the conserved and primitive fields
func (s *Solver) Limit(t float64, U, P Fields) {
	if s.Rdof == 1 {
		return
	}
	switch s.Limiter {
	case LIMITER_None:
	case LIMITER_WENOP1:
		s.wenoMultiMatP1(U, P)
	case LIMITER_SuperbeeP1:
		s.superbeeMultiMatP1(U, P)
	case LIMITER_VertexBasedP1:
		if s.Rdof == 4 {
			s.vertexBasedMultiMatP1(U, P)
		} else if s.Rdof == 10 {
			s.vertexBasedMultiMatP2(U, P)
		} else {
			panic(fmt.Errorf("vertex-based limiter requires rdof 4 or 10, have %d",
				s.Rdof))
		}
	}
}

// vertexBasedMultiMatP1 is Kuzmin's vertex-based limiter for multi-material
// P1, with bound-preserving and positivity limiting and the consistent
// multi-material coupling
func (s *Solver) vertexBasedMultiMatP1(U, P Fields) {
	var (
		nmat     = s.Nmat
		ncomp    = s.Ncomp
		nprim    = s.Nprim
		rdof     = s.Rdof
		intsharp = s.IP.IntSharp
	)
	s.MarkShockCells(U, P)

	for e := 0; e < s.Msh.Nelem; e++ {
		dofEl := s.dofElLocal(e)
		if dofEl <= 1 {
			continue
		}

		phic := onesVec(ncomp)
		phip := onesVec(nprim)

		if s.Shockmarker[e] == 1 {
			// discontinuity within the element: limit everything
			s.vertexBasedLimiting(nil, U, e, dofEl, ncomp, phic, 0, ncomp-1)
			s.vertexBasedLimiting(nil, P, e, dofEl, nprim, phip, 0, nprim-1)
		} else {
			// smooth cell: still limit the volume fractions, and the state
			// of minor materials, for stability
			s.vertexBasedLimiting(nil, U, e, dofEl, ncomp, phic,
				VolfracIdx(nmat, 0), VolfracIdx(nmat, nmat-1))

			for k := 0; k < nmat; k++ {
				if U.At(e, VolfracDofIdx(nmat, k, rdof, 0)) < 1e-4 {
					s.vertexBasedLimiting(nil, U, e, dofEl, ncomp, phic,
						DensityIdx(nmat, k), DensityIdx(nmat, k))
					s.vertexBasedLimiting(nil, U, e, dofEl, ncomp, phic,
						EnergyIdx(nmat, k), EnergyIdx(nmat, k))
					s.vertexBasedLimiting(nil, P, e, dofEl, nprim, phip,
						PressureIdx(nmat, k), PressureIdx(nmat, k))
				}
			}
		}

		var phicP2, phipP2 []float64

		if s.Ndof > 1 && intsharp == 0 && nmat > 1 {
			s.boundPreservingLimiting(e, s.Ndof, U, phic, phicP2)
		}
		if intsharp == 0 {
			s.positivityLimitingMultiMat(e, s.Rdof, U, P, phic, phicP2,
				phip, phipP2)
		}

		s.interfaceOverride(e, U, intsharp, phic, phicP2)

		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := 1; idof < 4; idof++ {
				U.Set(e, mark+idof, phic[c]*U.At(e, mark+idof))
			}
		}
		for c := 0; c < nprim; c++ {
			mark := c * rdof
			for idof := 1; idof < 4; idof++ {
				P.Set(e, mark+idof, phip[c]*P.At(e, mark+idof))
			}
		}
	}
}

// interfaceOverride releases the volume-fraction limiter in interface cells
// when compression is active, or applies the consistent multi-material
// coupling otherwise
func (s *Solver) interfaceOverride(e int, U Fields, intsharp int,
	phic, phicP2 []float64) {
	var (
		nmat = s.Nmat
		rdof = s.Rdof
	)
	matInt := make([]bool, nmat)
	alAvg := make([]float64, nmat)
	for k := 0; k < nmat; k++ {
		alAvg[k] = U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
	}
	intInd := InterfaceIndicator(nmat, alAvg, matInt)
	if intsharp > 0 && intInd {
		for k := 0; k < nmat; k++ {
			if matInt[k] {
				phic[VolfracIdx(nmat, k)] = 1.0
				if phicP2 != nil {
					phicP2[VolfracIdx(nmat, k)] = 1.0
				}
			}
		}
	} else if !s.IP.AccuracyTest {
		s.consistentMultiMatLimiting(e, U, phic, phicP2)
	}
}

// vertexBasedMultiMatP2 is the hierarchical reference-element variant for P2
func (s *Solver) vertexBasedMultiMatP2(U, P Fields) {
	var (
		nmat     = s.Nmat
		ncomp    = s.Ncomp
		nprim    = s.Nprim
		rdof     = s.Rdof
		intsharp = s.IP.IntSharp
	)
	s.MarkShockCells(U, P)

	// The limited solution is staged in copies so that the min/max bounds
	// always come from the unlimited neighbors
	ULim := U.Copy()
	PLim := P.Copy()

	for e := 0; e < s.Msh.Nelem; e++ {
		dofEl := s.dofElLocal(e)
		if dofEl <= 1 {
			continue
		}

		// hierarchical limiting on derivatives in the reference element
		unk := DG3D.DubinerToTaylorRefEl(ncomp, e, rdof, dofEl, s.MtInv, U)
		prim := DG3D.DubinerToTaylorRefEl(nprim, e, rdof, dofEl, s.MtInv, P)

		phicP1, phicP2 := onesVec(ncomp), onesVec(ncomp)
		phipP1, phipP2 := onesVec(nprim), onesVec(nprim)

		if s.Shockmarker[e] == 1 {
			if dofEl > 4 {
				s.vertexBasedLimitingP2(unk, U, e, ncomp, 0, ncomp-1, phicP2)
				s.vertexBasedLimitingP2(prim, P, e, nprim, 0, nprim-1, phipP2)
			}
			s.vertexBasedLimiting(unk, U, e, dofEl, ncomp, phicP1, 0, ncomp-1)
			s.vertexBasedLimiting(prim, P, e, dofEl, nprim, phipP1, 0, nprim-1)
		} else {
			if dofEl > 4 {
				s.vertexBasedLimitingP2(unk, U, e, ncomp,
					VolfracIdx(nmat, 0), VolfracIdx(nmat, nmat-1), phicP2)
			}
			s.vertexBasedLimiting(unk, U, e, dofEl, ncomp, phicP1,
				VolfracIdx(nmat, 0), VolfracIdx(nmat, nmat-1))

			for k := 0; k < nmat; k++ {
				if U.At(e, VolfracDofIdx(nmat, k, rdof, 0)) < 1e-4 {
					if dofEl > 4 {
						s.vertexBasedLimitingP2(unk, U, e, ncomp,
							DensityIdx(nmat, k), DensityIdx(nmat, k), phicP2)
						s.vertexBasedLimitingP2(prim, P, e, nprim,
							PressureIdx(nmat, k), PressureIdx(nmat, k), phipP2)
					}
					s.vertexBasedLimiting(unk, U, e, dofEl, ncomp, phicP1,
						DensityIdx(nmat, k), DensityIdx(nmat, k))
					s.vertexBasedLimiting(prim, P, e, dofEl, nprim, phipP1,
						PressureIdx(nmat, k), PressureIdx(nmat, k))
				}
			}
		}

		// the P2 limiter can only tighten the P1 factors further
		if dofEl > 4 {
			for c := 0; c < ncomp; c++ {
				phicP1[c] = math.Max(phicP1[c], phicP2[c])
			}
			for c := 0; c < nprim; c++ {
				phipP1[c] = math.Max(phipP1[c], phipP2[c])
			}
		}

		// identical factors for all volume fractions
		phiAlP1, phiAlP2 := 1.0, 1.0
		for k := 0; k < nmat; k++ {
			phiAlP1 = math.Min(phiAlP1, phicP1[VolfracIdx(nmat, k)])
			phiAlP2 = math.Min(phiAlP2, phicP2[VolfracIdx(nmat, k)])
		}
		for k := 0; k < nmat; k++ {
			phicP1[VolfracIdx(nmat, k)] = phiAlP1
			phicP2[VolfracIdx(nmat, k)] = phiAlP2
		}

		for c := 0; c < ncomp; c++ {
			for idof := 1; idof < 4; idof++ {
				unk[c][idof] *= phicP1[c]
			}
			for idof := 4; idof < rdof; idof++ {
				unk[c][idof] *= phicP2[c]
			}
		}
		for c := 0; c < nprim; c++ {
			for idof := 1; idof < 4; idof++ {
				prim[c][idof] *= phipP1[c]
			}
			for idof := 4; idof < rdof; idof++ {
				prim[c][idof] *= phipP2[c]
			}
		}

		DG3D.TaylorToDubinerRefEl(ncomp, dofEl, unk)
		DG3D.TaylorToDubinerRefEl(nprim, dofEl, prim)

		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := 1; idof < rdof; idof++ {
				ULim.Set(e, mark+idof, unk[c][idof])
			}
		}
		for c := 0; c < nprim; c++ {
			mark := c * rdof
			for idof := 1; idof < rdof; idof++ {
				PLim.Set(e, mark+idof, prim[c][idof])
			}
		}

		// bound/positivity limiting on the vertex-limited solution
		phicP1, phicP2 = onesVec(ncomp), onesVec(ncomp)
		phipP1, phipP2 = onesVec(nprim), onesVec(nprim)

		if s.Ndof > 1 && intsharp == 0 {
			s.boundPreservingLimiting(e, s.Ndof, ULim, phicP1, phicP2)
		}
		s.positivityLimitingMultiMat(e, s.Ndof, ULim, PLim, phicP1, phicP2,
			phipP1, phipP2)

		s.interfaceOverride(e, ULim, intsharp, phicP1, phicP2)

		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := 1; idof < 4; idof++ {
				ULim.Set(e, mark+idof, phicP1[c]*ULim.At(e, mark+idof))
			}
			for idof := 4; idof < rdof; idof++ {
				ULim.Set(e, mark+idof, phicP2[c]*ULim.At(e, mark+idof))
			}
		}
		for c := 0; c < nprim; c++ {
			mark := c * rdof
			for idof := 1; idof < 4; idof++ {
				PLim.Set(e, mark+idof, phipP1[c]*PLim.At(e, mark+idof))
			}
			for idof := 4; idof < rdof; idof++ {
				PLim.Set(e, mark+idof, phipP2[c]*PLim.At(e, mark+idof))
			}
		}
	}

	// store the limited high-order coefficients
	for e := 0; e < s.Msh.Nelem; e++ {
		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := 1; idof < rdof; idof++ {
				U.Set(e, mark+idof, ULim.At(e, mark+idof))
			}
		}
		for c := 0; c < nprim; c++ {
			mark := c * rdof
			for idof := 1; idof < rdof; idof++ {
				P.Set(e, mark+idof, PLim.At(e, mark+idof))
			}
		}
	}
}

// vertexBasedLimiting computes the Kuzmin P1 limiter factors for components
// [lo, hi] of element e. For rdof 10 the nodal solution values come from the
// Taylor representation unk.
func (s *Solver) vertexBasedLimiting(unk [][]float64, W Fields, e, dofEl,
	ncomp int, phi []float64, lo, hi int) {
	var (
		m    = s.Msh
		rdof = s.Rdof
	)
	coordel := m.CoordEl(e)
	detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])

	nvar := hi - lo + 1
	uMin := make([]float64, nvar)
	uMax := make([]float64, nvar)

	for lp := 0; lp < 4; lp++ {
		for c := lo; c <= hi; c++ {
			uMin[c-lo] = W.At(e, c*rdof)
			uMax[c-lo] = W.At(e, c*rdof)
		}
		p := m.Inpoel[4*e+lp]

		// min/max cell averages over the elements surrounding this node
		for _, er := range m.Esup[p] {
			for c := lo; c <= hi; c++ {
				v := W.At(er, c*rdof)
				uMin[c-lo] = math.Min(uMin[c-lo], v)
				uMax[c-lo] = math.Max(uMax[c-lo], v)
			}
		}

		// high-order solution at the node
		var state []float64
		if rdof == 4 {
			gp := [3]float64{m.Coord[0][p], m.Coord[1][p], m.Coord[2][p]}
			ref := DG3D.RefCoords(gp, coordel, detT)
			B := DG3D.EvalBasis(rdof, ref[0], ref[1], ref[2])
			state = EvalState(ncomp, rdof, dofEl, e, W, B, lo, hi)
		} else {
			Bt := DG3D.EvalTaylorBasisRefEl(rdof, refNodes[lp][0],
				refNodes[lp][1], refNodes[lp][2])
			state = make([]float64, ncomp)
			for c := lo; c <= hi; c++ {
				for idof := 0; idof < 4; idof++ {
					state[c] += unk[c][idof] * Bt[idof]
				}
			}
		}

		for c := lo; c <= hi; c++ {
			var (
				phiGp = 1.0
				avg   = W.At(e, c*rdof)
				uNeg  = state[c] - avg
				uref  = math.Max(math.Abs(avg), 1e-14)
				cmark = c - lo
			)
			if uNeg > 1.0e-06*uref {
				phiGp = math.Min(1.0, (uMax[cmark]-avg)/uNeg)
			} else if uNeg < -1.0e-06*uref {
				phiGp = math.Min(1.0, (uMin[cmark]-avg)/uNeg)
			}
			phi[c] = math.Min(phi[c], phiGp)
		}
	}
}

// vertexBasedLimitingP2 limits the second derivatives hierarchically: the
// first derivatives at the centroid play the role of cell averages
func (s *Solver) vertexBasedLimitingP2(unk [][]float64, W Fields, e,
	ncomp, lo, hi int, phi []float64) {
	var (
		m    = s.Msh
		rdof = s.Rdof
		nvar = hi - lo + 1
	)
	uMin := make([][3]float64, nvar)
	uMax := make([][3]float64, nvar)

	// reference-space basis gradients at the centroid, shared by every
	// element on the reference domain
	dBdxiC := DG3D.EvalDBdxi(rdof, 0.25, 0.25, 0.25)

	for lp := 0; lp < 4; lp++ {
		for c := lo; c <= hi; c++ {
			for idir := 0; idir < 3; idir++ {
				uMin[c-lo][idir] = unk[c][idir+1]
				uMax[c-lo][idir] = unk[c][idir+1]
			}
		}

		p := m.Inpoel[4*e+lp]
		for _, er := range m.Esup[p] {
			for c := lo; c <= hi; c++ {
				mark := c * rdof
				for idir := 0; idir < 3; idir++ {
					var slope float64
					for idof := 1; idof < rdof; idof++ {
						slope += W.At(er, mark+idof) * dBdxiC[idir][idof]
					}
					uMin[c-lo][idir] = math.Min(uMin[c-lo][idir], slope)
					uMax[c-lo][idir] = math.Max(uMax[c-lo][idir], slope)
				}
			}
		}

		// first derivatives of the Taylor solution at the node
		dx := refNodes[lp][0] - 0.25
		dy := refNodes[lp][1] - 0.25
		dz := refNodes[lp][2] - 0.25

		for c := lo; c <= hi; c++ {
			var state [3]float64
			state[0] = unk[c][1] + unk[c][4]*dx + unk[c][7]*dy + unk[c][8]*dz
			state[1] = unk[c][2] + unk[c][5]*dy + unk[c][7]*dx + unk[c][9]*dz
			state[2] = unk[c][3] + unk[c][6]*dz + unk[c][8]*dx + unk[c][9]*dy

			cmark := c - lo
			for idir := 0; idir < 3; idir++ {
				var (
					phiDir = 1.0
					uNeg   = state[idir] - unk[c][idir+1]
					uref   = math.Max(math.Abs(unk[c][idir+1]), 1e-14)
				)
				if uNeg > 1.0e-06*uref {
					phiDir = math.Min(1.0,
						(uMax[cmark][idir]-unk[c][idir+1])/uNeg)
				} else if uNeg < -1.0e-06*uref {
					phiDir = math.Min(1.0,
						(uMin[cmark][idir]-unk[c][idir+1])/uNeg)
				}
				phi[c] = math.Min(phi[c], phiDir)
			}
		}
	}
}

// consistentMultiMatLimiting couples the limiter factors of alpha, alpha*rho
// and alpha*rho*E in interface cells so the non-alpha slopes follow the
// volume fraction
func (s *Solver) consistentMultiMatLimiting(e int, U Fields,
	phicP1, phicP2 []float64) {
	var (
		nmat = s.Nmat
		rdof = s.Rdof
	)
	phiAlP1, phiAlP2, almax := 1.0, 1.0, 0.0
	for k := 0; k < nmat; k++ {
		phiAlP1 = math.Min(phiAlP1, phicP1[VolfracIdx(nmat, k)])
		if rdof > 4 && phicP2 != nil {
			phiAlP2 = math.Min(phiAlP2, phicP2[VolfracIdx(nmat, k)])
		}
		almax = math.Max(almax, U.At(e, VolfracDofIdx(nmat, k, rdof, 0)))
	}

	const alBand = 1e-4

	if almax > alBand && almax < 1.0-alBand {
		// interface cell: slopes of alpha*rho and alpha*rho*E follow alpha,
		// and all three share the volume-fraction limiter factor
		for k := 0; k < nmat; k++ {
			alk := math.Max(1.0e-14, U.At(e, VolfracDofIdx(nmat, k, rdof, 0)))
			rhok := U.At(e, DensityDofIdx(nmat, k, rdof, 0)) / alk
			rhoE := U.At(e, EnergyDofIdx(nmat, k, rdof, 0)) / alk
			for idof := 1; idof < rdof; idof++ {
				U.Set(e, DensityDofIdx(nmat, k, rdof, idof),
					rhok*U.At(e, VolfracDofIdx(nmat, k, rdof, idof)))
				U.Set(e, EnergyDofIdx(nmat, k, rdof, idof),
					rhoE*U.At(e, VolfracDofIdx(nmat, k, rdof, idof)))
			}
		}
		for k := 0; k < nmat; k++ {
			phicP1[VolfracIdx(nmat, k)] = phiAlP1
			phicP1[DensityIdx(nmat, k)] = phiAlP1
			phicP1[EnergyIdx(nmat, k)] = phiAlP1
			if rdof > 4 && phicP2 != nil {
				phicP2[VolfracIdx(nmat, k)] = phiAlP2
				phicP2[DensityIdx(nmat, k)] = phiAlP2
				phicP2[EnergyIdx(nmat, k)] = phiAlP2
			}
		}
	} else {
		// same limiter for all volume fractions
		for k := 0; k < nmat; k++ {
			phicP1[VolfracIdx(nmat, k)] = phiAlP1
			if rdof > 4 && phicP2 != nil {
				phicP2[VolfracIdx(nmat, k)] = phiAlP2
			}
		}
	}
}

// boundPreservingLimiting enforces alpha in [eps, 1-eps] at all face and
// interior quadrature points
func (s *Solver) boundPreservingLimiting(e, ndof int, U Fields,
	phicP1, phicP2 []float64) {
	var (
		m    = s.Msh
		nmat = s.Nmat
		rdof = s.Rdof
	)
	const (
		bpMin = 1e-14
		bpMax = 1.0 - bpMin
	)
	coordel := m.CoordEl(e)
	detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])

	phiBound := onesVec(nmat)

	evalDof := maxInt(ndof, 4)

	// face quadrature points
	for lf := 0; lf < 4; lf++ {
		var coordfa [3][3]float64
		for i := 0; i < 3; i++ {
			n := m.Inpoel[4*e+mesh.Lpofa[lf][i]]
			coordfa[i] = [3]float64{m.Coord[0][n], m.Coord[1][n], m.Coord[2][n]}
		}
		ng := DG3D.NGfa(evalDof)
		coordgp, _ := DG3D.GaussQuadratureTri(ng)

		for igp := 0; igp < ng; igp++ {
			gp := DG3D.EvalGPTri(igp, coordfa, coordgp)
			ref := DG3D.RefCoords(gp, coordel, detT)
			B := DG3D.EvalBasis(evalDof, ref[0], ref[1], ref[2])
			state := EvalState(s.Ncomp, rdof, evalDof, e, U, B,
				VolfracIdx(nmat, 0), VolfracIdx(nmat, nmat-1))

			for k := 0; k < nmat; k++ {
				phi := boundPreservingFunction(bpMin, bpMax,
					state[VolfracIdx(nmat, k)],
					U.At(e, VolfracDofIdx(nmat, k, rdof, 0)))
				phiBound[k] = math.Min(phiBound[k], phi)
			}
		}
	}

	// interior quadrature points for P2
	if ndof > 4 {
		ng := DG3D.NGvol(ndof)
		coordgp, _ := DG3D.GaussQuadratureTet(ng)
		for igp := 0; igp < ng; igp++ {
			B := DG3D.EvalBasis(ndof, coordgp[0][igp], coordgp[1][igp],
				coordgp[2][igp])
			state := EvalState(s.Ncomp, rdof, ndof, e, U, B,
				VolfracIdx(nmat, 0), VolfracIdx(nmat, nmat-1))
			for k := 0; k < nmat; k++ {
				phi := boundPreservingFunction(bpMin, bpMax,
					state[VolfracIdx(nmat, k)],
					U.At(e, VolfracDofIdx(nmat, k, rdof, 0)))
				phiBound[k] = math.Min(phiBound[k], phi)
			}
		}
	}

	for k := 0; k < nmat; k++ {
		phicP1[VolfracIdx(nmat, k)] = math.Min(phiBound[k],
			phicP1[VolfracIdx(nmat, k)])
		if ndof > 4 && phicP2 != nil {
			phicP2[VolfracIdx(nmat, k)] = math.Min(phiBound[k],
				phicP2[VolfracIdx(nmat, k)])
		}
	}
}

func boundPreservingFunction(min, max, alGp, alAvg float64) (phi float64) {
	phi = 1.0
	if alGp > max {
		phi = math.Abs((max - alAvg) / (alGp - alAvg))
	} else if alGp < min {
		phi = math.Abs((min - alAvg) / (alGp - alAvg))
	}
	return
}

// positivityLimitingMultiMat enforces positive partial densities, partial
// energies and physical material pressures at all quadrature points
func (s *Solver) positivityLimitingMultiMat(e, ndof int, U, P Fields,
	phicP1, phicP2, phipP1, phipP2 []float64) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
		nprim = s.Nprim
		rdof  = s.Rdof
	)
	const posMin = 1e-15

	coordel := m.CoordEl(e)
	detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])

	phicBound := onesVec(ncomp)
	phipBound := onesVec(nprim)

	evalDof := maxInt(ndof, 4)

	check := func(state, sprim []float64) {
		for k := 0; k < nmat; k++ {
			alAvg := U.At(e, VolfracDofIdx(nmat, k, rdof, 0))

			rho := state[DensityIdx(nmat, k)]
			rhoAvg := U.At(e, DensityDofIdx(nmat, k, rdof, 0))
			phiRho := positivityFunction(posMin, rho, rhoAvg)
			phicBound[DensityIdx(nmat, k)] =
				math.Min(phicBound[DensityIdx(nmat, k)], phiRho)

			rhoe := state[EnergyIdx(nmat, k)]
			rhoeAvg := U.At(e, EnergyDofIdx(nmat, k, rdof, 0))
			phiRhoe := positivityFunction(posMin, rhoe, rhoeAvg)
			phicBound[EnergyIdx(nmat, k)] =
				math.Min(phicBound[EnergyIdx(nmat, k)], phiRhoe)

			minPre := s.Mat[k].MinEffPressure(posMin, alAvg)
			pre := sprim[PressureIdx(nmat, k)]
			preAvg := P.At(e, PressureDofIdx(nmat, k, rdof, 0))
			phiPre := positivityFunction(minPre, pre, preAvg)
			phipBound[PressureIdx(nmat, k)] =
				math.Min(phipBound[PressureIdx(nmat, k)], phiPre)
		}
	}

	for lf := 0; lf < 4; lf++ {
		var coordfa [3][3]float64
		for i := 0; i < 3; i++ {
			n := m.Inpoel[4*e+mesh.Lpofa[lf][i]]
			coordfa[i] = [3]float64{m.Coord[0][n], m.Coord[1][n], m.Coord[2][n]}
		}
		ng := DG3D.NGfa(evalDof)
		coordgp, _ := DG3D.GaussQuadratureTri(ng)

		for igp := 0; igp < ng; igp++ {
			gp := DG3D.EvalGPTri(igp, coordfa, coordgp)
			ref := DG3D.RefCoords(gp, coordel, detT)
			B := DG3D.EvalBasis(evalDof, ref[0], ref[1], ref[2])
			state := EvalState(ncomp, rdof, evalDof, e, U, B, 0, ncomp-1)
			sprim := EvalState(nprim, rdof, evalDof, e, P, B, 0, nprim-1)
			check(state, sprim)
		}
	}

	if ndof > 4 {
		ng := DG3D.NGvol(ndof)
		coordgp, _ := DG3D.GaussQuadratureTet(ng)
		for igp := 0; igp < ng; igp++ {
			B := DG3D.EvalBasis(ndof, coordgp[0][igp], coordgp[1][igp],
				coordgp[2][igp])
			state := EvalState(ncomp, rdof, ndof, e, U, B, 0, ncomp-1)
			sprim := EvalState(nprim, rdof, ndof, e, P, B, 0, nprim-1)
			check(state, sprim)
		}
	}

	for c := VolfracIdx(nmat, nmat); c < ncomp; c++ {
		phicP1[c] = math.Min(phicBound[c], phicP1[c])
		if ndof > 4 && phicP2 != nil {
			phicP2[c] = math.Min(phicBound[c], phicP2[c])
		}
	}
	for c := PressureIdx(nmat, 0); c < PressureIdx(nmat, nmat); c++ {
		phipP1[c] = math.Min(phipBound[c], phipP1[c])
		if ndof > 4 && phipP2 != nil {
			phipP2[c] = math.Min(phipBound[c], phipP2[c])
		}
	}
}

// positivityFunction is the min-ratio positivity limiter factor
func positivityFunction(min, uGp, uAvg float64) (phi float64) {
	phi = 1.0
	diff := uGp - uAvg
	if uGp < min && math.Abs(diff) > 1e-13 {
		phi = math.Abs((min - uAvg) / diff)
	}
	return
}

// superbeeMultiMatP1 is the Superbee TVD limiter over the face-neighbor
// stencil
func (s *Solver) superbeeMultiMatP1(U, P Fields) {
	var (
		ncomp    = s.Ncomp
		nprim    = s.Nprim
		rdof     = s.Rdof
		intsharp = s.IP.IntSharp
	)
	for e := 0; e < s.Msh.Nelem; e++ {
		dofEl := s.dofElLocal(e)
		if dofEl <= 1 {
			continue
		}

		phic := s.superbeeLimiting(U, e, dofEl, ncomp)
		phip := s.superbeeLimiting(P, e, dofEl, nprim)

		var phicP2 []float64
		if s.Ndof > 1 {
			s.boundPreservingLimiting(e, s.Ndof, U, phic, phicP2)
		}

		s.interfaceOverride(e, U, intsharp, phic, phicP2)

		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := 1; idof < 4; idof++ {
				U.Set(e, mark+idof, phic[c]*U.At(e, mark+idof))
			}
		}
		for c := 0; c < nprim; c++ {
			mark := c * rdof
			for idof := 1; idof < 4; idof++ {
				P.Set(e, mark+idof, phip[c]*P.At(e, mark+idof))
			}
		}
	}
}

// superbeeLimiting computes the Superbee limiter factors over the four
// face neighbors of e with min-max bounds evaluated at face Gauss points
func (s *Solver) superbeeLimiting(W Fields, e, dofEl, ncomp int) (phi []float64) {
	var (
		m       = s.Msh
		rdof    = s.Rdof
		betaLim = 2.0
	)
	uMin := make([]float64, ncomp)
	uMax := make([]float64, ncomp)
	for c := 0; c < ncomp; c++ {
		uMin[c] = W.At(e, c*rdof)
		uMax[c] = W.At(e, c*rdof)
	}
	for is := 0; is < 4; is++ {
		nel := s.Msh.Esuel[4*e+is]
		if nel == -1 {
			continue
		}
		for c := 0; c < ncomp; c++ {
			v := W.At(nel, c*rdof)
			uMin[c] = math.Min(uMin[c], v)
			uMax[c] = math.Max(uMax[c], v)
		}
	}

	coordel := m.CoordEl(e)
	detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])
	ng := DG3D.NGfa(maxInt(s.Ndof, 4))
	coordgp, _ := DG3D.GaussQuadratureTri(ng)

	phi = onesVec(ncomp)
	for lf := 0; lf < 4; lf++ {
		var coordfa [3][3]float64
		for i := 0; i < 3; i++ {
			n := m.Inpoel[4*e+mesh.Lpofa[lf][i]]
			coordfa[i] = [3]float64{m.Coord[0][n], m.Coord[1][n], m.Coord[2][n]}
		}
		for igp := 0; igp < ng; igp++ {
			gp := DG3D.EvalGPTri(igp, coordfa, coordgp)
			ref := DG3D.RefCoords(gp, coordel, detT)
			B := DG3D.EvalBasis(rdof, ref[0], ref[1], ref[2])
			state := EvalState(ncomp, rdof, dofEl, e, W, B, 0, ncomp-1)

			for c := 0; c < ncomp; c++ {
				var (
					phiGp = 1.0
					avg   = W.At(e, c*rdof)
					uNeg  = state[c] - avg
				)
				if uNeg > 1.0e-14 {
					uNeg = math.Max(uNeg, 1.0e-08)
					phiGp = math.Min(1.0, (uMax[c]-avg)/(2.0*uNeg))
				} else if uNeg < -1.0e-14 {
					uNeg = math.Min(uNeg, -1.0e-08)
					phiGp = math.Min(1.0, (uMin[c]-avg)/(2.0*uNeg))
				}
				phiGp = math.Max(0.0, math.Max(
					math.Min(betaLim*phiGp, 1.0), math.Min(phiGp, betaLim)))
				phi[c] = math.Min(phi[c], phiGp)
			}
		}
	}
	return
}

// wenoMultiMatP1 replaces the P1 DOFs by the WENO-weighted combination of
// the neighborhood stencils, component by component
func (s *Solver) wenoMultiMatP1(U, P Fields) {
	var (
		ncomp   = s.Ncomp
		nprim   = s.Nprim
		rdof    = s.Rdof
		nelem   = s.Msh.Nelem
		cweight = 1000.0
	)
	apply := func(W Fields, nvar int) {
		limU := make([][3]float64, nelem)
		for c := 0; c < nvar; c++ {
			for e := 0; e < nelem; e++ {
				limU[e] = s.wenoLimiting(W, e, c, cweight)
			}
			mark := c * rdof
			for e := 0; e < nelem; e++ {
				W.Set(e, mark+1, limU[e][0])
				W.Set(e, mark+2, limU[e][1])
				W.Set(e, mark+3, limU[e][2])
			}
		}
	}
	apply(U, ncomp)
	apply(P, nprim)
}

// wenoLimiting computes the WENO-limited gradient of component c in element
// e from the face-neighborhood stencils
func (s *Solver) wenoLimiting(W Fields, e, c int, cweight float64) (lim [3]float64) {
	var (
		rdof      = s.Rdof
		gradu     [5][3]float64
		wtStencil [5]float64
		osc       [5]float64
		wtDof     [5]float64
		mark      = c * rdof
	)
	gradu[0] = [3]float64{W.At(e, mark+1), W.At(e, mark+2), W.At(e, mark+3)}
	wtStencil[0] = cweight

	for is := 1; is < 5; is++ {
		nel := s.Msh.Esuel[4*e+is-1]
		if nel == -1 {
			continue
		}
		gradu[is] = [3]float64{W.At(nel, mark+1), W.At(nel, mark+2),
			W.At(nel, mark+3)}
		wtStencil[is] = 1.0
	}

	// oscillation indicators determine the effective stencil weights; the
	// 1e-8 guard avoids division by zero for constant solutions
	var wtotal float64
	for is := 0; is < 5; is++ {
		osc[is] = math.Sqrt(gradu[is][0]*gradu[is][0] +
			gradu[is][1]*gradu[is][1] + gradu[is][2]*gradu[is][2])
		wtDof[is] = wtStencil[is] * math.Pow(1.0e-8+osc[is], -2)
		wtotal += wtDof[is]
	}
	for is := 0; is < 5; is++ {
		wtDof[is] /= wtotal
		for idir := 0; idir < 3; idir++ {
			lim[idir] += wtDof[is] * gradu[is][idir]
		}
	}
	return
}

func onesVec(n int) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = 1.0
	}
	return
}
