package MultiMat

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/notargets/multimat/DG3D"
	"github.com/notargets/multimat/DG3D/mesh"
	"github.com/notargets/multimat/InputParameters"
	"github.com/notargets/multimat/utils"
)

// ICFn evaluates the conserved initial-condition state at a point and time
type ICFn func(x, y, z, t float64) []float64

// Solver is the cell-centered multi-material DG kernel: modal conserved and
// primitive fields on a tetrahedral mesh, advanced by SSP-RK3 with
// reconstruction, limiting, positivity preservation, trace-material cleanup
// and optional p-adaptivity per stage.
type Solver struct {
	IP  *InputParameters.InputParametersMM
	Msh *mesh.Mesh
	Mat []Material
	IC  ICFn

	Nmat, Nsld   int
	Ncomp, Nprim int
	Ndof, Rdof   int

	NumEqDof    []int // solved DOFs per component
	Ndofel      []int // local adaptive DOFs per element
	Shockmarker []int

	U, P Fields

	MtInv   utils.Matrix // inverse reference Taylor mass matrix
	Flux    RiemannFlux
	Limiter LimiterType
	BCs     []BCGroup

	Time           float64
	ParallelDegree int

	bndFacesOfEl map[int][]bndFace

	// per-stage scratch
	riemannDeriv [][]float64
	vriemSamples [][]float64
	vriemLoc     [][]float64
	vriempoly    [][]float64
}

// NewSolver builds a solver for the given input deck, mesh and initial
// condition
func NewSolver(ip *InputParameters.InputParametersMM, m *mesh.Mesh,
	ic ICFn) (s *Solver, err error) {
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	mat, err := NewMaterials(ip.Materials)
	if err != nil {
		return nil, err
	}

	var nsld int
	for _, mt := range mat {
		if mt.SolidIndex > 0 {
			nsld++
		}
	}

	ndof, rdof := ip.NDofs()
	nmat := len(mat)

	s = &Solver{
		IP:             ip,
		Msh:            m,
		Mat:            mat,
		IC:             ic,
		Nmat:           nmat,
		Nsld:           nsld,
		Ncomp:          NumComponents(nmat, nsld),
		Nprim:          NumPrimitives(nmat),
		Ndof:           ndof,
		Rdof:           rdof,
		Flux:           fluxFunction(NewFluxType(ip.FluxType)),
		Limiter:        NewLimiterType(ip.Limiter),
		ParallelDegree: runtime.NumCPU(),
	}

	// volume fractions stay P0Pm in multi-material DG
	s.NumEqDof = make([]int, s.Ncomp)
	for c := range s.NumEqDof {
		s.NumEqDof[c] = ndof
	}
	if nmat > 1 && ndof > 1 {
		for k := 0; k < nmat; k++ {
			s.NumEqDof[VolfracIdx(nmat, k)] = 1
		}
	}

	s.Ndofel = make([]int, m.Nelem)
	for e := range s.Ndofel {
		s.Ndofel[e] = ndof
	}
	s.Shockmarker = make([]int, m.Nelem)

	s.U = NewFields(m.Nelem, s.Ncomp*rdof)
	s.P = NewFields(m.Nelem, s.Nprim*rdof)

	if rdof > 4 {
		s.MtInv = DG3D.TaylorMassMatrixInvRefEl(rdof)
	}

	if err = s.resolveBCs(); err != nil {
		return nil, err
	}

	// boundary faces per element, for reconstruction ghosts
	s.bndFacesOfEl = make(map[int][]bndFace)
	for _, bc := range s.BCs {
		for _, f := range bc.Faces {
			el := m.Esuf[2*f]
			s.bndFacesOfEl[el] = append(s.bndFacesOfEl[el],
				bndFace{f: f, kind: bc.Kind})
		}
	}

	s.riemannDeriv = make([][]float64, 3*nmat+rdof)
	for i := range s.riemannDeriv {
		s.riemannDeriv[i] = make([]float64, m.Nelem)
	}
	s.vriemSamples = make([][]float64, m.Nelem)
	s.vriemLoc = make([][]float64, m.Nelem)
	s.vriempoly = make([][]float64, m.Nelem)
	for e := 0; e < m.Nelem; e++ {
		s.vriempoly[e] = make([]float64, 12)
	}

	s.Initialize()
	return
}

// Initialize projects the initial condition onto the modal basis by Gauss
// quadrature and fills the primitive field
func (s *Solver) Initialize() {
	var (
		m     = s.Msh
		ncomp = s.Ncomp
		rdof  = s.Rdof
	)
	L := DG3D.MassMatrixDubiner(rdof, 1.0)
	ng := DG3D.NGvol(rdof)
	coordgp, wgp := DG3D.GaussQuadratureTet(ng)

	for e := 0; e < m.Nelem; e++ {
		coordel := m.CoordEl(e)
		R := make([]float64, ncomp*rdof)
		for igp := 0; igp < ng; igp++ {
			gp := DG3D.EvalGPTet(igp, coordel, coordgp)
			B := DG3D.EvalBasis(rdof, coordgp[0][igp], coordgp[1][igp],
				coordgp[2][igp])
			u0 := s.IC(gp[0], gp[1], gp[2], 0.0)
			for c := 0; c < ncomp; c++ {
				mark := c * rdof
				for idof := 0; idof < rdof; idof++ {
					R[mark+idof] += wgp[igp] * u0[c] * B[idof]
				}
			}
		}
		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := 0; idof < rdof; idof++ {
				s.U.Set(e, mark+idof, R[mark+idof]/L[idof])
			}
		}
	}

	s.UpdatePrimitives()
}

// UpdatePrimitives recomputes the modal primitive field (material pressures
// and bulk velocity) from the conserved field by L2 projection
func (s *Solver) UpdatePrimitives() {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		nprim = s.Nprim
		rdof  = s.Rdof
	)
	L := DG3D.MassMatrixDubiner(rdof, 1.0)
	ng := DG3D.NGvol(maxInt(rdof, 4))
	coordgp, wgp := DG3D.GaussQuadratureTet(ng)

	s.parallelOverElements(func(elFirst, elLast int) {
		pri := make([]float64, nprim)
		for e := elFirst; e < elLast; e++ {
			dofEl := s.dofElLocal(e)
			R := make([]float64, nprim*rdof)

			for igp := 0; igp < ng; igp++ {
				B := DG3D.EvalBasis(maxInt(dofEl, rdof), coordgp[0][igp],
					coordgp[1][igp], coordgp[2][igp])
				w := wgp[igp]

				state := EvalState(ncomp, rdof, dofEl, e, s.U, B, 0, ncomp-1)

				var rhob float64
				for k := 0; k < nmat; k++ {
					rhob += state[DensityIdx(nmat, k)]
				}
				vel := [3]float64{
					state[MomentumIdx(nmat, 0)] / rhob,
					state[MomentumIdx(nmat, 1)] / rhob,
					state[MomentumIdx(nmat, 2)] / rhob,
				}

				for imat := 0; imat < nmat; imat++ {
					apr := s.Mat[imat].Pressure(state[DensityIdx(nmat, imat)],
						vel[0], vel[1], vel[2], state[EnergyIdx(nmat, imat)],
						state[VolfracIdx(nmat, imat)], imat)
					pri[PressureIdx(nmat, imat)] =
						s.Mat[imat].ConstrainPressure(apr,
							state[VolfracIdx(nmat, imat)])
				}
				for idir := 0; idir < 3; idir++ {
					pri[VelocityIdx(nmat, idir)] = vel[idir]
				}

				for k := 0; k < nprim; k++ {
					mark := k * rdof
					for idof := 0; idof < rdof; idof++ {
						R[mark+idof] += w * pri[k] * B[idof]
					}
				}
			}

			for k := 0; k < nprim; k++ {
				mark := k * rdof
				for idof := 0; idof < rdof; idof++ {
					v := R[mark+idof] / L[idof]
					if math.Abs(v) < 1e-16 {
						v = 0
					}
					s.P.Set(e, mark+idof, v)
				}
			}
		}
	})
}

// UpdateInterfaceCells resets, in interface cells when compression is
// active, the high-order DOFs of the bulk momentum and of the partial
// densities and energies of the materials flagged by InterfaceIndicator,
// keeping the material-interface state piecewise constant there
func (s *Solver) UpdateInterfaceCells() {
	if s.IP.IntSharp == 0 {
		return
	}
	var (
		nmat = s.Nmat
		rdof = s.Rdof
	)
	for e := 0; e < s.Msh.Nelem; e++ {
		matInt := make([]bool, nmat)
		alAvg := make([]float64, nmat)
		for k := 0; k < nmat; k++ {
			alAvg[k] = s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
		}
		if !InterfaceIndicator(nmat, alAvg, matInt) {
			continue
		}
		for k := 0; k < nmat; k++ {
			if !matInt[k] {
				continue
			}
			for i := 1; i < rdof; i++ {
				s.U.Set(e, DensityDofIdx(nmat, k, rdof, i), 0.0)
				s.U.Set(e, EnergyDofIdx(nmat, k, rdof, i), 0.0)
			}
		}
		for idir := 0; idir < 3; idir++ {
			for i := 1; i < rdof; i++ {
				s.U.Set(e, MomentumDofIdx(nmat, idir, rdof, i), 0.0)
			}
		}
	}
}

// RHS evaluates the semidiscrete right-hand side into R: internal and
// boundary surface integrals, flux-divergence and non-conservative volume
// integrals, and the optional pressure relaxation source
func (s *Solver) RHS(t float64, U, P Fields, R Fields) {
	R.Fill(0.0)

	for i := range s.riemannDeriv {
		for e := range s.riemannDeriv[i] {
			s.riemannDeriv[i][e] = 0.0
		}
	}
	for e := 0; e < s.Msh.Nelem; e++ {
		s.vriemSamples[e] = s.vriemSamples[e][:0]
		s.vriemLoc[e] = s.vriemLoc[e][:0]
	}

	// face loops run in face-id order for reproducibility
	s.surfInt(t, U, P, R)
	s.bndSurfInt(t, U, P, R)

	for i := range s.riemannDeriv {
		for e := 0; e < s.Msh.Nelem; e++ {
			s.riemannDeriv[i][e] /= s.Msh.GeoElem.At(e, 0)
		}
	}

	s.solveVriem()

	// element-local volume work is split over the worker lanes
	s.parallelOverElements(func(elFirst, elLast int) {
		if s.Ndof > 1 {
			s.volInt(elFirst, elLast, U, P, R)
		}
		s.nonConservativeInt(elFirst, elLast, U, P, R)
		if s.IP.Prelax == 1 {
			s.pressureRelaxationInt(elFirst, elLast, U, P, R)
		}
	})
}

// parallelOverElements runs fn over disjoint element ranges in worker
// goroutines, one per lane
func (s *Solver) parallelOverElements(fn func(elFirst, elLast int)) {
	var (
		np = s.ParallelDegree
		wg = sync.WaitGroup{}
	)
	if np < 1 {
		np = 1
	}
	chunk := (s.Msh.Nelem + np - 1) / np
	for lane := 0; lane < np; lane++ {
		lo := lane * chunk
		hi := minInt(lo+chunk, s.Msh.Nelem)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SSP-RK3 stage coefficients
var (
	rka = [3]float64{0.0, 3.0 / 4.0, 1.0 / 3.0}
	rkb = [3]float64{1.0, 1.0 / 4.0, 2.0 / 3.0}
)

// Step advances one SSP-RK3 time step and returns the step size taken
func (s *Solver) Step() (dt float64) {
	var (
		m     = s.Msh
		ncomp = s.Ncomp
		ndof  = s.Ndof
		rdof  = s.Rdof
	)
	dt = s.TimeStepSize()
	if s.Time+dt > s.IP.FinalTime {
		dt = s.IP.FinalTime - s.Time
	}

	U0 := s.U.Copy()
	R := NewFields(m.Nelem, ncomp*ndof)

	for stage := 0; stage < 3; stage++ {
		s.RHS(s.Time, s.U, s.P, R)

		s.parallelOverElements(func(elFirst, elLast int) {
			for e := elFirst; e < elLast; e++ {
				L := DG3D.MassMatrixDubiner(ndof, m.GeoElem.At(e, 0))
				for c := 0; c < ncomp; c++ {
					ndofc := minInt(s.Ndofel[e], s.NumEqDof[c])
					for idof := 0; idof < ndofc; idof++ {
						unew := s.U.At(e, c*rdof+idof) +
							dt*R.At(e, c*ndof+idof)/L[idof]
						s.U.Set(e, c*rdof+idof,
							rka[stage]*U0.At(e, c*rdof+idof)+
								rkb[stage]*unew)
					}
				}
			}
		})

		s.UpdatePrimitives()
		s.Reconstruct(s.Time, s.U, s.P)
		s.Limit(s.Time, s.U, s.P)
		s.CorrectConserv()
		s.CleanTraceMaterial()
		s.UpdateInterfaceCells()
	}

	s.EvalNdof()
	s.Time += dt
	return
}

// Solve runs the time loop until the final time or the iteration cap
func (s *Solver) Solve() {
	s.PrintInitialization()

	var (
		steps    int
		elapsed  time.Duration
		finished bool
	)
	for !finished {
		start := time.Now()
		dt := s.Step()
		elapsed += time.Since(start)
		steps++
		finished = s.Time >= s.IP.FinalTime ||
			(s.IP.MaxIterations > 0 && steps >= s.IP.MaxIterations)
		if finished || steps%10 == 0 || steps == 1 {
			s.PrintUpdate(dt, steps)
		}
	}
	s.PrintFinal(elapsed, steps)
}

func (s *Solver) PrintInitialization() {
	fmt.Printf("Multi-material Euler Equations in 3 Dimensions\n")
	fmt.Printf("Using %d go routines in parallel\n", s.ParallelDegree)
	fmt.Printf("Materials: %d, Components: %d\n", s.Nmat, s.Ncomp)
	fmt.Printf("Algorithm: %s / %s / %s\n", s.IP.Scheme, s.IP.FluxType,
		s.IP.Limiter)
	fmt.Printf("CFL = %8.4f, Num Elements K = %d\n\n", s.IP.CFL, s.Msh.Nelem)
	fmt.Printf("Solving until finaltime = %8.5f\n", s.IP.FinalTime)
	fmt.Printf("    iter    time  min_dt\n")
}

func (s *Solver) PrintUpdate(dt float64, steps int) {
	fmt.Printf("%8d%8.5f%8.5f\n", steps, s.Time, dt)
}

func (s *Solver) PrintFinal(elapsed time.Duration, steps int) {
	rate := float64(elapsed.Microseconds()) / float64(s.Msh.Nelem*steps)
	fmt.Printf("\nRate of execution = %8.5f us/(element*iteration) over %d "+
		"iterations\n", rate, steps)
}
