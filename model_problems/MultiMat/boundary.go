package MultiMat

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/multimat/DG3D"
)

// BCKind enumerates the boundary-condition state functions
type BCKind uint8

const (
	BC_Dirichlet BCKind = iota
	BC_Symmetry
	BC_Farfield
	BC_Extrapolate
	BC_Stagnation
	BC_Sponge
	BC_TimeDep
)

var BCNames = map[string]BCKind{
	"dirichlet":   BC_Dirichlet,
	"symmetry":    BC_Symmetry,
	"farfield":    BC_Farfield,
	"extrapolate": BC_Extrapolate,
	"stagnation":  BC_Stagnation,
	"sponge":      BC_Sponge,
	"timedep":     BC_TimeDep,
}

// BCGroup binds a state function kind to the boundary faces of one side set
type BCGroup struct {
	Kind    BCKind
	SideSet int
	Faces   []int
}

// StateFn computes the ghost state for a boundary face point. The input and
// output are conserved states with primitives appended.
type StateFn func(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64)

func stateFunction(kind BCKind) StateFn {
	switch kind {
	case BC_Dirichlet:
		return dirichletState
	case BC_Symmetry:
		return symmetryState
	case BC_Farfield:
		return farfieldState
	case BC_Extrapolate:
		return extrapolateState
	case BC_Stagnation:
		return stagnationState
	case BC_Sponge:
		return spongeState
	case BC_TimeDep:
		return timedepState
	}
	panic(fmt.Errorf("boundary condition kind %d not configured", kind))
}

// resolveBCs maps the configured side sets to BC groups, failing on side
// sets that carry no faces only if they are entirely unknown to the mesh
func (s *Solver) resolveBCs() error {
	kinds := make([]string, 0, len(s.IP.BCs))
	for kind := range s.IP.BCs {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		bk, ok := BCNames[kind]
		if !ok {
			return fmt.Errorf("BCs: unknown boundary condition kind %q", kind)
		}
		for _, ss := range s.IP.BCs[kind] {
			faces, ok := s.Msh.BFaceSets[ss]
			if !ok {
				return fmt.Errorf("BCs[%s]: side set %d not present in mesh",
					kind, ss)
			}
			s.BCs = append(s.BCs, BCGroup{Kind: bk, SideSet: ss, Faces: faces})
		}
	}
	return nil
}

// bndSurfInt computes boundary surface flux integrals for all configured
// side sets, walking each side-set face list in input order
func (s *Solver) bndSurfInt(t float64, U, P Fields, R Fields) {
	var (
		m     = s.Msh
		nmat  = s.Nmat
		ncomp = s.Ncomp
		ndof  = s.Ndof
		rdof  = s.Rdof
	)
	for _, bc := range s.BCs {
		state := stateFunction(bc.Kind)
		for _, f := range bc.Faces {
			el := m.Esuf[2*f]

			ng := DG3D.NGfa(s.Ndofel[el])
			coordgp, wgp := DG3D.GaussQuadratureTri(ng)

			coordelL := m.CoordEl(el)
			detTL := DG3D.Jacobian(coordelL[0], coordelL[1], coordelL[2],
				coordelL[3])
			coordfa := m.CoordFa(f)

			fn := [3]float64{m.GeoFace.At(f, 1), m.GeoFace.At(f, 2),
				m.GeoFace.At(f, 3)}

			for igp := 0; igp < ng; igp++ {
				gp := DG3D.EvalGPTri(igp, coordfa, coordgp)

				dofEl := s.dofElLocal(el)
				refGpL := DG3D.RefCoords(gp, coordelL, detTL)
				BL := DG3D.EvalBasis(dofEl, refGpL[0], refGpL[1], refGpL[2])

				wt := wgp[igp] * m.GeoFace.At(f, 0)

				ugp := s.EvalPolynomialSol(s.IP.IntSharp, el, dofEl, refGpL,
					BL, U, P)
				ur := state(s, ugp, gp[0], gp[1], gp[2], t, fn)

				fl := s.Flux(s, fn, ugp, ur)

				for c := 0; c < ncomp; c++ {
					mark := c * ndof
					for idof := 0; idof < s.Ndofel[el]; idof++ {
						R.Add(el, mark+idof, -wt*fl[c]*BL[idof])
					}
				}

				for k := 0; k < nmat; k++ {
					for idir := 0; idir < 3; idir++ {
						s.riemannDeriv[3*k+idir][el] += wt * fl[ncomp+k] * fn[idir]
					}
				}
				vriem := fl[ncomp+nmat]
				for idof := 0; idof < s.Ndofel[el] && idof < rdof; idof++ {
					s.riemannDeriv[3*nmat+idof][el] += wt * vriem * BL[idof]
				}

				s.vriemSamples[el] = append(s.vriemSamples[el],
					vriem*fn[0], vriem*fn[1], vriem*fn[2])
				s.vriemLoc[el] = append(s.vriemLoc[el], gp[0], gp[1], gp[2])
			}
		}
	}
}

// appendPrimitives recomputes the primitive tail of a conserved ghost state
func (s *Solver) appendPrimitives(ur []float64) []float64 {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
	)
	var rho float64
	for k := 0; k < nmat; k++ {
		rho += ur[DensityIdx(nmat, k)]
	}
	ur = ur[:ncomp]
	ur = append(ur, make([]float64, s.Nprim)...)
	for idir := 0; idir < 3; idir++ {
		ur[ncomp+VelocityIdx(nmat, idir)] = ur[MomentumIdx(nmat, idir)] / rho
	}
	for k := 0; k < nmat; k++ {
		ur[ncomp+PressureIdx(nmat, k)] = s.Mat[k].Pressure(
			ur[DensityIdx(nmat, k)],
			ur[ncomp+VelocityIdx(nmat, 0)],
			ur[ncomp+VelocityIdx(nmat, 1)],
			ur[ncomp+VelocityIdx(nmat, 2)],
			ur[EnergyIdx(nmat, k)], ur[VolfracIdx(nmat, k)], k)
	}
	return ur
}

// dirichletState builds the ghost from the initial-condition function at the
// face point, with primitives recomputed from the EOS
func dirichletState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	ur = s.IC(x, y, z, t)
	return s.appendPrimitives(ur)
}

// symmetryState reflects the normal momentum component; material pressures
// are copied from the interior
func symmetryState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
	)
	ur = make([]float64, len(ul))
	copy(ur, ul)

	var rhovn float64
	for idir := 0; idir < 3; idir++ {
		rhovn += ul[MomentumIdx(nmat, idir)] * fn[idir]
	}
	var vn float64
	for idir := 0; idir < 3; idir++ {
		vn += ul[ncomp+VelocityIdx(nmat, idir)] * fn[idir]
	}
	for idir := 0; idir < 3; idir++ {
		ur[MomentumIdx(nmat, idir)] = ul[MomentumIdx(nmat, idir)] -
			2.0*rhovn*fn[idir]
		ur[ncomp+VelocityIdx(nmat, idir)] = ul[ncomp+VelocityIdx(nmat, idir)] -
			2.0*vn*fn[idir]
	}
	return
}

// farfieldState imposes the user farfield (rho_k, u, p); subsonic in/outflow
// takes the complementary quantities from the interior
func farfieldState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		far   = s.IP.Farfield
	)
	ur = make([]float64, len(ul))
	copy(ur, ul)

	var vn float64
	for idir := 0; idir < 3; idir++ {
		vn += ul[ncomp+VelocityIdx(nmat, idir)] * fn[idir]
	}

	// mixture sound speed of the interior state
	fs := s.faceState(fn, ul)
	mach := vn / fs.ac

	uinf := [3]float64{far["u"], far["v"], far["w"]}
	pinf := far["p"]

	switch {
	case mach <= -1.0:
		// supersonic inflow: everything from the farfield
		for k := 0; k < nmat; k++ {
			alk := far[fmt.Sprintf("alpha%d", k+1)]
			rhok := far[fmt.Sprintf("rho%d", k+1)]
			ur[VolfracIdx(nmat, k)] = alk
			ur[DensityIdx(nmat, k)] = alk * rhok
			ur[EnergyIdx(nmat, k)] = alk * s.Mat[k].TotalEnergy(rhok,
				uinf[0], uinf[1], uinf[2], pinf)
		}
		var rho float64
		for k := 0; k < nmat; k++ {
			rho += ur[DensityIdx(nmat, k)]
		}
		for idir := 0; idir < 3; idir++ {
			ur[MomentumIdx(nmat, idir)] = rho * uinf[idir]
		}
		ur = s.appendPrimitives(ur)

	case mach < 0.0:
		// subsonic inflow: density and velocity from the farfield, interior
		// pressure
		for k := 0; k < nmat; k++ {
			alk := far[fmt.Sprintf("alpha%d", k+1)]
			rhok := far[fmt.Sprintf("rho%d", k+1)]
			pk := ul[ncomp+PressureIdx(nmat, k)] /
				math.Max(ul[VolfracIdx(nmat, k)], 1e-14)
			ur[VolfracIdx(nmat, k)] = alk
			ur[DensityIdx(nmat, k)] = alk * rhok
			ur[EnergyIdx(nmat, k)] = alk * s.Mat[k].TotalEnergy(rhok,
				uinf[0], uinf[1], uinf[2], pk)
		}
		var rho float64
		for k := 0; k < nmat; k++ {
			rho += ur[DensityIdx(nmat, k)]
		}
		for idir := 0; idir < 3; idir++ {
			ur[MomentumIdx(nmat, idir)] = rho * uinf[idir]
		}
		ur = s.appendPrimitives(ur)

	case mach < 1.0:
		// subsonic outflow: farfield pressure, interior everything else
		for k := 0; k < nmat; k++ {
			alk := ul[VolfracIdx(nmat, k)]
			rhok := ul[DensityIdx(nmat, k)] / math.Max(alk, 1e-14)
			ur[EnergyIdx(nmat, k)] = alk * s.Mat[k].TotalEnergy(rhok,
				ul[ncomp+VelocityIdx(nmat, 0)],
				ul[ncomp+VelocityIdx(nmat, 1)],
				ul[ncomp+VelocityIdx(nmat, 2)], pinf)
			ur[ncomp+PressureIdx(nmat, k)] = alk * pinf
		}
	}
	// supersonic outflow: extrapolate, ur is already a copy of ul
	return
}

// extrapolateState copies the interior state
func extrapolateState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	ur = make([]float64, len(ul))
	copy(ur, ul)
	return
}

// stagnationState zeroes the velocity within a radius of the user point
func stagnationState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		cfg   = s.IP.Stagnation
	)
	ur = make([]float64, len(ul))
	copy(ur, ul)

	dx := x - cfg["x"]
	dy := y - cfg["y"]
	dz := z - cfg["z"]
	if math.Sqrt(dx*dx+dy*dy+dz*dz) > cfg["radius"] {
		return
	}
	for idir := 0; idir < 3; idir++ {
		ur[MomentumIdx(nmat, idir)] = 0.0
		ur[ncomp+VelocityIdx(nmat, idir)] = 0.0
	}
	return
}

// spongeState damps the interior velocity toward zero with the configured
// factor
func spongeState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		sig   = s.IP.Sponge["factor"]
	)
	ur = make([]float64, len(ul))
	copy(ur, ul)
	for idir := 0; idir < 3; idir++ {
		ur[MomentumIdx(nmat, idir)] *= 1.0 - sig
		ur[ncomp+VelocityIdx(nmat, idir)] *= 1.0 - sig
	}
	return
}

// timedepState interpolates the user table (t -> rho, u, v, w, p) piecewise
// linearly and builds the ghost from it. One table of TimeDepTables serves
// every face regardless of its side set; with more than one table, which
// one is used is not defined.
func timedepState(s *Solver, ul []float64, x, y, z, t float64,
	fn [3]float64) (ur []float64) {
	var (
		nmat  = s.Nmat
		table [][]float64
	)
	for _, tab := range s.IP.TimeDepTables {
		table = tab
		break
	}
	if len(table) == 0 {
		return extrapolateState(s, ul, x, y, z, t, fn)
	}

	// piecewise-linear interpolation in time, clamped at the table ends
	vals := make([]float64, 5)
	switch {
	case t <= table[0][0]:
		copy(vals, table[0][1:])
	case t >= table[len(table)-1][0]:
		copy(vals, table[len(table)-1][1:])
	default:
		for i := 1; i < len(table); i++ {
			if t <= table[i][0] {
				w := (t - table[i-1][0]) / (table[i][0] - table[i-1][0])
				for j := 0; j < 5; j++ {
					vals[j] = (1.0-w)*table[i-1][1+j] + w*table[i][1+j]
				}
				break
			}
		}
	}
	rhoIn, uIn, vIn, wIn, pIn := vals[0], vals[1], vals[2], vals[3], vals[4]

	ur = make([]float64, len(ul))
	copy(ur, ul)
	for k := 0; k < nmat; k++ {
		alk := ul[VolfracIdx(nmat, k)]
		rhok := rhoIn
		ur[DensityIdx(nmat, k)] = alk * rhok
		ur[EnergyIdx(nmat, k)] = alk * s.Mat[k].TotalEnergy(rhok, uIn, vIn,
			wIn, pIn)
	}
	var rho float64
	for k := 0; k < nmat; k++ {
		rho += ur[DensityIdx(nmat, k)]
	}
	ur[MomentumIdx(nmat, 0)] = rho * uIn
	ur[MomentumIdx(nmat, 1)] = rho * vIn
	ur[MomentumIdx(nmat, 2)] = rho * wIn
	return s.appendPrimitives(ur)
}
