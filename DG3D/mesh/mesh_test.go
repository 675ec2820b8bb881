package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxMeshTopology(t *testing.T) {
	var (
		nx, ny, nz = 3, 2, 2
	)
	m, err := NewBox(0, 1, 0, 1, 0, 1, nx, ny, nz)
	require.NoError(t, err)

	assert.Equal(t, 6*nx*ny*nz, m.Nelem)
	assert.Equal(t, (nx+1)*(ny+1)*(nz+1), m.Npoin)

	// each boundary quad splits into two triangles
	nbExpect := 2 * 2 * (nx*ny + ny*nz + nx*nz)
	assert.Equal(t, nbExpect, m.Nbfac)

	// total face count: boundary + half the matched element faces
	assert.Equal(t, m.Nbfac+(4*m.Nelem-m.Nbfac)/2, m.Nface())

	// every element face either has a neighbor or is a boundary face
	var nbnd int
	for i := 0; i < 4*m.Nelem; i++ {
		if m.Esuel[i] == -1 {
			nbnd++
		}
	}
	assert.Equal(t, nbExpect, nbnd)

	// all six box sides are tagged
	for ss := 1; ss <= 6; ss++ {
		assert.NotEmpty(t, m.BFaceSets[ss], "side set %d", ss)
	}
}

func TestBoxMeshGeometry(t *testing.T) {
	m, err := NewBox(0, 2, 0, 1, 0, 1, 4, 2, 2)
	require.NoError(t, err)

	// element volumes are positive and sum to the box volume
	var vol float64
	for e := 0; e < m.Nelem; e++ {
		v := m.GeoElem.At(e, 0)
		assert.True(t, v > 0)
		vol += v
	}
	assert.InDelta(t, 2.0, vol, 1e-12)

	// per element, the outward area-weighted normals sum to zero
	acc := make(map[int][3]float64)
	for f := 0; f < m.Nface(); f++ {
		var (
			el   = m.Esuf[2*f]
			er   = m.Esuf[2*f+1]
			area = m.GeoFace.At(f, 0)
		)
		n := [3]float64{m.GeoFace.At(f, 1), m.GeoFace.At(f, 2),
			m.GeoFace.At(f, 3)}
		a := acc[el]
		for i := 0; i < 3; i++ {
			a[i] += area * n[i]
		}
		acc[el] = a
		if er > -1 {
			a = acc[er]
			for i := 0; i < 3; i++ {
				a[i] -= area * n[i]
			}
			acc[er] = a
		}
	}
	for e := 0; e < m.Nelem; e++ {
		for i := 0; i < 3; i++ {
			assert.True(t, math.Abs(acc[e][i]) < 1e-12,
				"element %d direction %d: %v", e, i, acc[e][i])
		}
	}

	// unit normals
	for f := 0; f < m.Nface(); f++ {
		n2 := m.GeoFace.At(f, 1)*m.GeoFace.At(f, 1) +
			m.GeoFace.At(f, 2)*m.GeoFace.At(f, 2) +
			m.GeoFace.At(f, 3)*m.GeoFace.At(f, 3)
		assert.InDelta(t, 1.0, n2, 1e-12)
	}
}

func TestBoundaryNormalsPointOutward(t *testing.T) {
	m, err := NewBox(0, 1, 0, 1, 0, 1, 2, 2, 2)
	require.NoError(t, err)

	for f := 0; f < m.Nbfac; f++ {
		el := m.Esuf[2*f]
		assert.Equal(t, -1, m.Esuf[2*f+1])
		// the vector from the element centroid to the face centroid has a
		// positive component along the outward normal
		var dot float64
		for i := 0; i < 3; i++ {
			dot += (m.GeoFace.At(f, 4+i) - m.GeoElem.At(el, 1+i)) *
				m.GeoFace.At(f, 1+i)
		}
		assert.True(t, dot > 0, "face %d", f)
	}
}

func TestEsupContainsElements(t *testing.T) {
	m, err := NewBox(0, 1, 0, 1, 0, 1, 2, 2, 2)
	require.NoError(t, err)

	for e := 0; e < m.Nelem; e++ {
		for i := 0; i < 4; i++ {
			p := m.Inpoel[4*e+i]
			found := false
			for _, n := range m.Esup[p] {
				if n == e {
					found = true
					break
				}
			}
			assert.True(t, found, "element %d missing from esup of node %d", e, p)
		}
	}
}
