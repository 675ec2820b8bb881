package MultiMat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/multimat/DG3D"
	"github.com/notargets/multimat/DG3D/mesh"
	"github.com/notargets/multimat/utils"
)

func TestEvalState(t *testing.T) {
	var (
		ncomp = 3
		rdof  = 4
		U     = utils.NewMatrix(2, ncomp*rdof)
	)
	for c := 0; c < ncomp; c++ {
		for idof := 0; idof < rdof; idof++ {
			U.Set(1, c*rdof+idof, float64(10*c+idof))
		}
	}
	B := DG3D.EvalBasis(rdof, 0.3, 0.2, 0.1)

	state := EvalState(ncomp, rdof, rdof, 1, U, B, 0, ncomp-1)
	for c := 0; c < ncomp; c++ {
		want := float64(10 * c)
		for idof := 1; idof < rdof; idof++ {
			want += float64(10*c+idof) * B[idof]
		}
		assert.InDelta(t, want, state[c], 1e-14)
	}

	// a narrowed component range leaves the others at zero
	state = EvalState(ncomp, rdof, rdof, 1, U, B, 1, 1)
	assert.Equal(t, 0.0, state[0])
	assert.Equal(t, 0.0, state[2])
	assert.NotEqual(t, 0.0, state[1])

	// P0 evaluation uses only the cell average
	state = EvalState(ncomp, rdof, 1, 1, U, B, 0, ncomp-1)
	assert.Equal(t, 20.0, state[2])

	// empty request
	assert.Empty(t, EvalState(0, rdof, rdof, 1, U, B, 0, -1))
}

func TestTHINCCompressesInterface(t *testing.T) {
	// an odd cell count puts the material interface inside a cell
	s := airWaterSolver(t, "P0P1", 9)
	s.IP.IntSharp = 1
	s.IP.IntSharpParam = 2.5

	// pick an interface element and give alpha a slope in x
	var ei = -1
	for e := 0; e < s.Msh.Nelem; e++ {
		al := s.U.At(e, VolfracDofIdx(s.Nmat, 0, s.Rdof, 0))
		if al > 0.2 && al < 0.8 {
			ei = e
			break
		}
	}
	require.True(t, ei >= 0, "no interface element found")

	s.Reconstruct(0, s.U, s.P)

	// evaluate alpha on either side of the cell center along the interface
	// normal: THINC must steepen the profile beyond the linear one
	evalAl := func(intsharp int, ref [3]float64) float64 {
		B := DG3D.EvalBasis(s.Rdof, ref[0], ref[1], ref[2])
		state := s.EvalPolynomialSol(intsharp, ei, s.Rdof, ref, B, s.U, s.P)
		return state[VolfracIdx(s.Nmat, 0)]
	}

	refLo := [3]float64{0.05, 0.25, 0.25}
	refHi := [3]float64{0.55, 0.2, 0.2}

	linSpan := math.Abs(evalAl(0, refHi) - evalAl(0, refLo))
	thincSpan := math.Abs(evalAl(1, refHi) - evalAl(1, refLo))

	if linSpan > 1e-8 {
		assert.True(t, thincSpan > 0.5*linSpan,
			"THINC span %v versus linear span %v", thincSpan, linSpan)
	}

	// THINC keeps alpha within physical bounds
	for _, ref := range [][3]float64{refLo, refHi} {
		al := evalAl(1, ref)
		assert.True(t, al > 0 && al < 1)
	}
}

func TestConservedStateConsistency(t *testing.T) {
	mats := []Material{
		{EOS: StiffenedGas, Gamma: 4.4, PStiff: 6.0e8, Cv: 4186.0},
		{EOS: StiffenedGas, Gamma: 1.4, Cv: 717.5},
	}
	u := ConservedState(mats, 0, []float64{0.3, 0.7},
		[]float64{1000.0, 1.2}, [3]float64{5, 0, 0}, 2.0e5)

	// bulk momentum equals bulk density times velocity
	rhob := u[DensityIdx(2, 0)] + u[DensityIdx(2, 1)]
	assert.InDelta(t, rhob*5.0, u[MomentumIdx(2, 0)], 1e-9*rhob*5.0)

	// pressures recovered through the EOS match the input
	for k := 0; k < 2; k++ {
		apr := mats[k].Pressure(u[DensityIdx(2, k)], 5, 0, 0,
			u[EnergyIdx(2, k)], u[VolfracIdx(2, k)], k)
		assert.InDelta(t, u[VolfracIdx(2, k)]*2.0e5, apr,
			1e-8*u[VolfracIdx(2, k)]*2.0e5)
	}
}

func TestReconstructionRecoversLinearField(t *testing.T) {
	// With cell averages sampled from a linear field, the least-squares
	// reconstruction recovers its exact gradient away from the boundary
	ip := airWaterDeck("P0P1")
	msh, err := mesh.NewBox(0, 1, 0, 1, 0, 1, 3, 3, 3)
	require.NoError(t, err)
	mats, err := NewMaterials(ip.Materials)
	require.NoError(t, err)
	ic := UniformIC(mats, 0, []float64{0.5, 0.5}, []float64{1000.0, 50.0},
		[3]float64{}, 1.0e5)
	s, err := NewSolver(ip, msh, ic)
	require.NoError(t, err)
	var (
		nmat = s.Nmat
		rdof = s.Rdof
		m    = s.Msh
	)
	// overwrite the volume fraction averages with 0.2 + 0.3x + 0.1y
	for e := 0; e < m.Nelem; e++ {
		xc := [3]float64{m.GeoElem.At(e, 1), m.GeoElem.At(e, 2),
			m.GeoElem.At(e, 3)}
		al := 0.2 + 0.3*xc[0] + 0.1*xc[1]
		s.U.Set(e, VolfracDofIdx(nmat, 0, rdof, 0), al)
		s.U.Set(e, VolfracDofIdx(nmat, 1, rdof, 0), 1.0-al)
	}

	for e := 0; e < m.Nelem; e++ {
		s.recoLeastSqExtStencil(e, s.U, VolfracIdx(nmat, 0),
			VolfracIdx(nmat, nmat-1), true, 0)
	}

	// check the reconstructed point values against the linear field for an
	// interior element
	var ei = -1
	for e := 0; e < m.Nelem; e++ {
		interior := true
		for lf := 0; lf < 4; lf++ {
			if m.Esuel[4*e+lf] == -1 {
				interior = false
			}
		}
		if interior && len(s.bndFacesOfEl[e]) == 0 {
			ei = e
			break
		}
	}
	require.True(t, ei >= 0)

	coordel := m.CoordEl(ei)
	detT := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3])
	pt := [3]float64{m.GeoElem.At(ei, 1) + 0.01, m.GeoElem.At(ei, 2) - 0.01,
		m.GeoElem.At(ei, 3)}
	ref := DG3D.RefCoords(pt, coordel, detT)
	B := DG3D.EvalBasis(rdof, ref[0], ref[1], ref[2])

	state := EvalState(s.Ncomp, rdof, rdof, ei, s.U, B,
		VolfracIdx(nmat, 0), VolfracIdx(nmat, 0))
	want := 0.2 + 0.3*pt[0] + 0.1*pt[1]
	assert.InDelta(t, want, state[VolfracIdx(nmat, 0)], 1e-10)
}
