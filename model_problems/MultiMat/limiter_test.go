package MultiMat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/multimat/DG3D/mesh"
	"github.com/notargets/multimat/InputParameters"
)

func airWaterDeck(scheme string) *InputParameters.InputParametersMM {
	return &InputParameters.InputParametersMM{
		Title:          "air-water",
		Scheme:         scheme,
		Limiter:        "vertexbasedp1",
		FluxType:       "AUSM",
		CFL:            0.5,
		FinalTime:      1.0,
		ShockDetection: true,
		Materials: []InputParameters.MaterialParameters{
			{EOS: "stiffenedgas", Gamma: 4.4, PStiff: 6.0e8, Cv: 4186.0},
			{EOS: "stiffenedgas", Gamma: 1.4, Cv: 717.5},
		},
		BCs: map[string][]int{
			"extrapolate": {1, 2},
			"symmetry":    {3, 4, 5, 6},
		},
	}
}

func airWaterSolver(t *testing.T, scheme string, nx int) *Solver {
	ip := airWaterDeck(scheme)
	m, err := mesh.NewBox(0, 1, 0, 0.2, 0, 0.2, nx, 1, 1)
	require.NoError(t, err)

	mat, err := NewMaterials(ip.Materials)
	require.NoError(t, err)

	const eps = 1e-6
	ic := PlanarIC(mat, 0, 0.5,
		[]float64{1 - eps, eps}, []float64{1000.0, 50.0}, [3]float64{}, 1.0e9,
		[]float64{eps, 1 - eps}, []float64{1000.0, 50.0}, [3]float64{}, 1.0e5)

	s, err := NewSolver(ip, m, ic)
	require.NoError(t, err)
	return s
}

func TestLimiterPreservesCellAverages(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 8)

	// randomize the high-order DOFs, keep physically valid averages
	rng := rand.New(rand.NewSource(7))
	for e := 0; e < s.Msh.Nelem; e++ {
		for c := 0; c < s.Ncomp; c++ {
			mark := c * s.Rdof
			scale := math.Abs(s.U.At(e, mark)) * 0.1
			for idof := 1; idof < s.Rdof; idof++ {
				s.U.Set(e, mark+idof, scale*(rng.Float64()*2-1))
			}
		}
	}
	avg := make([]float64, s.Msh.Nelem*s.Ncomp)
	for e := 0; e < s.Msh.Nelem; e++ {
		for c := 0; c < s.Ncomp; c++ {
			avg[e*s.Ncomp+c] = s.U.At(e, c*s.Rdof)
		}
	}

	s.Limit(0, s.U, s.P)

	for e := 0; e < s.Msh.Nelem; e++ {
		for c := 0; c < s.Ncomp; c++ {
			got := s.U.At(e, c*s.Rdof)
			want := avg[e*s.Ncomp+c]
			assert.InDelta(t, want, got, 10*math.Abs(want)*1e-16+1e-300,
				"cell average changed: element %d component %d", e, c)
		}
	}
}

func TestBoundPreservingAlpha(t *testing.T) {
	s := airWaterSolver(t, "P0P1", 9)

	// inject an overshooting alpha slope in an interface cell
	var (
		nmat = s.Nmat
		rdof = s.Rdof
	)
	for e := 0; e < s.Msh.Nelem; e++ {
		al := s.U.At(e, VolfracDofIdx(nmat, 0, rdof, 0))
		if al < 0.2 || al > 0.8 {
			continue
		}
		s.U.Set(e, VolfracDofIdx(nmat, 0, rdof, 1), 5.0)
		s.U.Set(e, VolfracDofIdx(nmat, 1, rdof, 1), -5.0)
	}

	s.Limit(0, s.U, s.P)

	// alpha must be within bounds at the nodes of every element
	for e := 0; e < s.Msh.Nelem; e++ {
		for lp := 0; lp < 4; lp++ {
			ref := refNodes[lp]
			B := []float64{1,
				2*ref[0] + ref[1] + ref[2] - 1,
				3*ref[1] + ref[2] - 1,
				4*ref[2] - 1}
			for k := 0; k < nmat; k++ {
				var alv float64
				for idof := 0; idof < rdof; idof++ {
					alv += s.U.At(e, VolfracDofIdx(nmat, k, rdof, idof)) *
						B[idof]
				}
				assert.True(t, alv > -1e-5 && alv < 1.0+1e-5,
					"alpha out of bounds at node %d of element %d: %v",
					lp, e, alv)
			}
		}
	}
}

func TestInterfaceIndicator(t *testing.T) {
	matInt := make([]bool, 2)

	// pure cell: no interface
	assert.False(t, InterfaceIndicator(2, []float64{1 - 1e-12, 1e-12}, matInt))
	assert.False(t, matInt[0])

	// mixed cell: both materials flagged
	assert.True(t, InterfaceIndicator(2, []float64{0.4, 0.6}, matInt))
	assert.True(t, matInt[0])
	assert.True(t, matInt[1])

	// trace above the band threshold
	assert.True(t, InterfaceIndicator(2, []float64{1e-4, 1 - 1e-4}, matInt))
}

func TestPositivityFunction(t *testing.T) {
	// value above the floor: no limiting
	assert.Equal(t, 1.0, positivityFunction(1e-15, 0.5, 1.0))
	// value below the floor: min-ratio factor
	phi := positivityFunction(1e-15, -0.5, 1.0)
	assert.True(t, phi < 1.0 && phi > 0.0)
	assert.InDelta(t, (1e-15-1.0)/(-1.5), phi, 1e-12)
}

func TestBoundPreservingFunction(t *testing.T) {
	assert.Equal(t, 1.0, boundPreservingFunction(1e-14, 1-1e-14, 0.5, 0.5))
	phi := boundPreservingFunction(1e-14, 1-1e-14, 1.4, 0.8)
	assert.InDelta(t, (1-1e-14-0.8)/(1.4-0.8), phi, 1e-12)
}

func TestShockMarkerUniformFlow(t *testing.T) {
	// a uniform moving state produces no indicator signal
	ip := airWaterDeck("DGP1")
	m, err := mesh.NewBox(0, 1, 0, 1, 0, 1, 3, 3, 3)
	require.NoError(t, err)
	mat, err := NewMaterials(ip.Materials)
	require.NoError(t, err)

	ic := UniformIC(mat, 0, []float64{0.5, 0.5}, []float64{1000.0, 50.0},
		[3]float64{10, 0, 0}, 1.0e5)
	s, err := NewSolver(ip, m, ic)
	require.NoError(t, err)

	s.MarkShockCells(s.U, s.P)
	for e := 0; e < s.Msh.Nelem; e++ {
		assert.Equal(t, 0, s.Shockmarker[e], "element %d", e)
	}
}
