package MultiMat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/multimat/DG3D/mesh"
	"github.com/notargets/multimat/InputParameters"
)

func sodDeck() *InputParameters.InputParametersMM {
	return &InputParameters.InputParametersMM{
		Title:          "Sod shock tube",
		Scheme:         "P0P1",
		Limiter:        "vertexbasedp1",
		FluxType:       "HLLC",
		CFL:            0.5,
		FinalTime:      0.2,
		ShockDetection: true,
		Materials: []InputParameters.MaterialParameters{
			{EOS: "stiffenedgas", Gamma: 1.4, Cv: 717.5},
		},
		BCs: map[string][]int{
			"extrapolate": {1, 2},
			"symmetry":    {3, 4, 5, 6},
		},
	}
}

func TestFreestreamPreservation(t *testing.T) {
	// A uniform state must produce a zero right-hand side and stay uniform
	// over several steps, for every scheme and flux
	for _, scheme := range []string{"P0P1", "DGP1"} {
		for _, flux := range []string{"AUSM", "HLLC", "HLL", "Rusanov",
			"LaxFriedrichs"} {
			ip := airWaterDeck(scheme)
			ip.FluxType = flux
			ip.FinalTime = 1.0e-5
			// a moving freestream is only preserved when every ghost copies
			// the interior state
			ip.BCs = map[string][]int{"extrapolate": {1, 2, 3, 4, 5, 6}}

			m, err := mesh.NewBox(0, 1, 0, 1, 0, 1, 2, 2, 2)
			require.NoError(t, err)
			mat, err := NewMaterials(ip.Materials)
			require.NoError(t, err)

			ic := UniformIC(mat, 0, []float64{0.4, 0.6},
				[]float64{1000.0, 50.0}, [3]float64{20, -5, 3}, 2.0e5)
			s, err := NewSolver(ip, m, ic)
			require.NoError(t, err)

			u0 := ic(0, 0, 0, 0)

			for step := 0; step < 3; step++ {
				s.Step()
			}

			for e := 0; e < s.Msh.Nelem; e++ {
				for c := 0; c < s.Ncomp; c++ {
					got := s.U.At(e, c*s.Rdof)
					ref := math.Max(math.Abs(u0[c]), 1.0)
					assert.InDelta(t, u0[c], got, 1e-8*ref,
						"%s/%s element %d component %d", scheme, flux, e, c)
				}
			}
		}
	}
}

func TestVolumeFractionUnitSum(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 16)
	for step := 0; step < 5; step++ {
		s.Step()
		for e := 0; e < s.Msh.Nelem; e++ {
			var alsum float64
			for k := 0; k < s.Nmat; k++ {
				al := s.U.At(e, VolfracDofIdx(s.Nmat, k, s.Rdof, 0))
				assert.True(t, al >= 0, "negative alpha in element %d", e)
				alsum += al
			}
			assert.InDelta(t, 1.0, alsum, 1e-12, "element %d", e)
		}
	}
}

func TestSodShockTube(t *testing.T) {
	if testing.Short() {
		t.Skip("Sod tube integration test skipped in short mode")
	}
	ip := sodDeck()
	m, err := mesh.NewBox(0, 1, 0, 0.02, 0, 0.02, 100, 1, 1)
	require.NoError(t, err)
	mat, err := NewMaterials(ip.Materials)
	require.NoError(t, err)

	s, err := NewSolver(ip, m, SodIC(mat))
	require.NoError(t, err)

	for s.Time < ip.FinalTime {
		s.Step()
	}

	// sample cell averages along the tube
	rhoAt := func(x float64) float64 {
		e, ok := s.FindElement([3]float64{x, 0.01, 0.01})
		require.True(t, ok)
		return s.U.At(e, DensityDofIdx(1, 0, s.Rdof, 0))
	}
	pAt := func(x float64) float64 {
		e, ok := s.FindElement([3]float64{x, 0.01, 0.01})
		require.True(t, ok)
		return s.P.At(e, PressureDofIdx(1, 0, s.Rdof, 0))
	}

	// post-shock plateau between the contact and the shock
	assert.InDelta(t, 0.2655, rhoAt(0.80), 0.03)
	assert.InDelta(t, 0.3031, pAt(0.80), 0.03)

	// the shock sits near x = 0.85: well ahead of it the state is still the
	// undisturbed right state
	assert.InDelta(t, 0.125, rhoAt(0.95), 0.01)
	assert.InDelta(t, 0.1, pAt(0.95), 0.01)

	// left of the rarefaction head the state is undisturbed
	assert.InDelta(t, 1.0, rhoAt(0.05), 0.01)
	assert.InDelta(t, 1.0, pAt(0.05), 0.01)
}

func TestAirWaterInterfaceStability(t *testing.T) {
	if testing.Short() {
		t.Skip("air-water integration test skipped in short mode")
	}
	s := airWaterSolver(t, "P0P1", 32)

	for step := 0; step < 20; step++ {
		s.Step()
	}

	for e := 0; e < s.Msh.Nelem; e++ {
		for k := 0; k < s.Nmat; k++ {
			arho := s.U.At(e, DensityDofIdx(s.Nmat, k, s.Rdof, 0))
			assert.True(t, arho >= 0 && !math.IsNaN(arho),
				"bad partial density %v in element %d material %d", arho, e, k)
			apr := s.P.At(e, PressureDofIdx(s.Nmat, k, s.Rdof, 0))
			assert.False(t, math.IsNaN(apr) || math.IsInf(apr, 0),
				"bad partial pressure in element %d material %d", e, k)
		}
	}
}

func TestCleanTraceMaterial(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 8)

	// poison a trace material with a negative volume fraction and an
	// unphysical energy
	var (
		nmat = s.Nmat
		rdof = s.Rdof
		e    = 0
	)
	s.U.Set(e, VolfracDofIdx(nmat, 1, rdof, 0), -1e-9)
	s.U.Set(e, VolfracDofIdx(nmat, 0, rdof, 0), 1.0+1e-9)

	s.CleanTraceMaterial()

	var alsum float64
	for k := 0; k < nmat; k++ {
		al := s.U.At(e, VolfracDofIdx(nmat, k, rdof, 0))
		assert.True(t, al > 0, "material %d alpha %v", k, al)
		alsum += al
		assert.True(t, s.U.At(e, DensityDofIdx(nmat, k, rdof, 0)) > 0)
	}
	assert.InDelta(t, 1.0, alsum, 1e-12)
}

func TestCleanTraceNegativeDensityPanics(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 4)
	s.U.Set(0, DensityDofIdx(s.Nmat, 0, s.Rdof, 0), -1.0)
	assert.Panics(t, func() { s.CleanTraceMaterial() })
}

func TestTimeStepPositive(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 8)
	dt := s.TimeStepSize()
	assert.True(t, dt > 0 && !math.IsInf(dt, 0))

	// dt scales inversely with the sound speed: water at 1 GPa is fast
	assert.True(t, dt < 1e-3)
}

func TestCorrectConservKeepsAverages(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 8)
	var (
		nmat = s.Nmat
		rdof = s.Rdof
	)
	avgs := make([][3]float64, s.Msh.Nelem)
	for e := range avgs {
		for d := 0; d < 3; d++ {
			avgs[e][d] = s.U.At(e, MomentumDofIdx(nmat, d, rdof, 0))
		}
	}

	s.CorrectConserv()

	for e := range avgs {
		for d := 0; d < 3; d++ {
			got := s.U.At(e, MomentumDofIdx(nmat, d, rdof, 0))
			assert.InDelta(t, avgs[e][d], got,
				10*math.Abs(avgs[e][d])*1e-16+1e-280,
				"momentum average changed in element %d", e)
		}
	}
}

func TestPAdaptivityRaisesAndLowers(t *testing.T) {
	ip := airWaterDeck("DGP1")
	ip.PAdaptive = true
	ip.NDOFMax = 4
	ip.TolRef = 1e-3
	ip.TolDeref = 1e-8

	m, err := mesh.NewBox(0, 1, 0, 1, 0, 1, 2, 2, 2)
	require.NoError(t, err)
	mat, err := NewMaterials(ip.Materials)
	require.NoError(t, err)

	ic := UniformIC(mat, 0, []float64{0.5, 0.5}, []float64{1000.0, 50.0},
		[3]float64{}, 1.0e5)
	s, err := NewSolver(ip, m, ic)
	require.NoError(t, err)

	// smooth data: every element drops to P0
	s.EvalNdof()
	for e := 0; e < s.Msh.Nelem; e++ {
		assert.Equal(t, 1, s.Ndofel[e], "element %d", e)
	}

	// strong high-order content: elements rise back to P1
	for e := 0; e < s.Msh.Nelem; e++ {
		mark := DensityIdx(s.Nmat, 0) * s.Rdof
		s.U.Set(e, mark+1, 0.5*s.U.At(e, mark))
	}
	s.EvalNdof()
	for e := 0; e < s.Msh.Nelem; e++ {
		assert.Equal(t, 4, s.Ndofel[e], "element %d", e)
	}
}

func TestFieldNames(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 4)
	names := s.FieldNames()
	assert.Equal(t, []string{"F1", "F2", "D1", "D2", "M1", "M2", "M3",
		"E1", "E2", "U1", "U2", "U3", "P1", "P2"}, names)
	assert.Len(t, s.CellAverages(0), len(names))
}

func TestHistOutput(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 4)
	pt := [3]float64{0.1, 0.1, 0.1}
	e, ok := s.FindElement(pt)
	require.True(t, ok)
	out := s.HistOutput(e, pt)

	// left state: nearly pure water at 1 GPa, at rest
	assert.InDelta(t, 1000.0, out[0], 1.0)
	assert.InDelta(t, 0.0, out[1], 1e-8)
	assert.InDelta(t, 1.0e9, out[5], 1e6)
}

func TestJWLExpansionStaysFinite(t *testing.T) {
	if testing.Short() {
		t.Skip("JWL integration test skipped in short mode")
	}
	ip := &InputParameters.InputParametersMM{
		Title:          "JWL product expansion",
		Scheme:         "P0P1",
		Limiter:        "vertexbasedp1",
		FluxType:       "AUSM",
		CFL:            0.25,
		FinalTime:      1.0,
		ShockDetection: true,
		Materials: []InputParameters.MaterialParameters{
			{EOS: "jwl", A: 3.712e11, B: 3.23e9, R1: 4.15, R2: 0.95,
				Rho0: 1630, Omega: 0.3, E0: 4.29e6, Cv: 1000,
				RhoRef: 1630, TRef: 300},
			{EOS: "stiffenedgas", Gamma: 1.4, Cv: 717.5},
		},
		BCs: map[string][]int{
			"extrapolate": {1, 2, 3, 4, 5, 6},
		},
	}
	m, err := mesh.NewBox(0, 0.1, 0, 0.01, 0, 0.01, 16, 1, 1)
	require.NoError(t, err)
	mat, err := NewMaterials(ip.Materials)
	require.NoError(t, err)

	// detonation products expanding into a near-vacuum air stand-in
	const eps = 1e-6
	ic := PlanarIC(mat, 0, 0.05,
		[]float64{1 - eps, eps}, []float64{1630.0, 1.2}, [3]float64{}, 2.0e10,
		[]float64{eps, 1 - eps}, []float64{1630.0, 1.2}, [3]float64{}, 1.0e5)
	s, err := NewSolver(ip, m, ic)
	require.NoError(t, err)

	pPrev := math.Inf(1)
	for step := 0; step < 10; step++ {
		s.Step()
		// peak product pressure decreases monotonically as the products
		// expand
		var pMax float64
		for e := 0; e < s.Msh.Nelem; e++ {
			al := s.U.At(e, VolfracDofIdx(s.Nmat, 0, s.Rdof, 0))
			if al < 0.5 {
				continue
			}
			p := s.P.At(e, PressureDofIdx(s.Nmat, 0, s.Rdof, 0)) / al
			require.False(t, math.IsNaN(p) || math.IsInf(p, 0))
			pMax = math.Max(pMax, p)
		}
		assert.True(t, pMax <= pPrev*(1.0+1e-3),
			"product pressure rose from %v to %v at step %d", pPrev, pMax, step)
		pPrev = pMax
	}
}

func TestTriplePointNoNegativeDensities(t *testing.T) {
	if testing.Short() {
		t.Skip("triple-point integration test skipped in short mode")
	}
	ip := &InputParameters.InputParametersMM{
		Title:          "triple point",
		Scheme:         "DGP1",
		Limiter:        "vertexbasedp1",
		FluxType:       "AUSM",
		CFL:            0.4,
		FinalTime:      1.0,
		IntSharp:       1,
		IntSharpParam:  2.5,
		ShockDetection: true,
		Materials: []InputParameters.MaterialParameters{
			{EOS: "stiffenedgas", Gamma: 1.5, Cv: 717.5},
			{EOS: "stiffenedgas", Gamma: 1.4, Cv: 717.5},
			{EOS: "stiffenedgas", Gamma: 1.625, Cv: 717.5},
		},
		BCs: map[string][]int{
			"symmetry": {1, 2, 3, 4, 5, 6},
		},
	}
	m, err := mesh.NewBox(0, 7, 0, 3, 0, 0.5, 14, 6, 1)
	require.NoError(t, err)
	mat, err := NewMaterials(ip.Materials)
	require.NoError(t, err)

	const eps = 1e-6
	ic := func(x, y, z, t float64) []float64 {
		alpha := []float64{eps, eps, eps}
		rho := []float64{1.0, 0.125, 1.0}
		p := 0.1
		switch {
		case x < 1:
			alpha[0] = 1 - 2*eps
			p = 1.0
		case y < 1.5:
			alpha[2] = 1 - 2*eps
		default:
			alpha[1] = 1 - 2*eps
		}
		return ConservedState(mat, 0, alpha, rho, [3]float64{}, p)
	}
	s, err := NewSolver(ip, m, ic)
	require.NoError(t, err)

	for step := 0; step < 10; step++ {
		s.Step()
	}
	for e := 0; e < s.Msh.Nelem; e++ {
		for k := 0; k < s.Nmat; k++ {
			arho := s.U.At(e, DensityDofIdx(s.Nmat, k, s.Rdof, 0))
			assert.True(t, arho > 0, "non-positive partial density %v in "+
				"element %d material %d", arho, e, k)
		}
	}
}
