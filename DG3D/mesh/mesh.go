package mesh

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/notargets/multimat/DG3D"
	"github.com/notargets/multimat/utils"
)

/*
	Tetrahedral mesh container with the derived data the DG kernel consumes:
	elements-surrounding-points (esup), elements-surrounding-elements
	(esuel), face-element connectivity (esuf) with boundary faces numbered
	first, face nodes (inpofa), and precomputed element/face geometry.

	All arrays are read-only once the mesh is constructed.
*/

// Local face-to-node table with outward-pointing orientation for a
// positively oriented tetrahedron
var Lpofa = [4][3]int{{1, 2, 3}, {0, 3, 2}, {0, 1, 3}, {0, 2, 1}}

type Mesh struct {
	Nelem, Npoin int
	Inpoel       []int         // element-node connectivity, 4*Nelem
	Coord        [3][]float64  // nodal coordinates
	Esup         map[int][]int // elements surrounding each point
	Esuel        []int         // element neighbors across faces, -1 at boundary
	Esuf         []int         // face-element connectivity, 2*Nface
	Inpofa       []int         // face-node connectivity, 3*Nface
	Nbfac        int           // boundary faces occupy face ids [0, Nbfac)
	BFaceSets    map[int][]int // side-set id -> boundary face ids
	GeoElem      utils.Matrix  // per element: volume, xc, yc, zc, h
	GeoFace      utils.Matrix  // per face: area, nx, ny, nz, xc, yc, zc
}

// New builds a mesh and all derived data from coordinates, connectivity and
// a side-set classifier that assigns each boundary face (by centroid and
// outward normal) to a side-set id
func New(coord [3][]float64, inpoel []int,
	sideset func(fc, fn [3]float64) int) (m *Mesh, err error) {
	if len(inpoel)%4 != 0 {
		return nil, fmt.Errorf("element connectivity length %d is not a multiple of 4",
			len(inpoel))
	}
	m = &Mesh{
		Nelem:  len(inpoel) / 4,
		Npoin:  len(coord[0]),
		Inpoel: inpoel,
		Coord:  coord,
	}

	m.buildEsup()
	if err = m.buildFaces(); err != nil {
		return nil, err
	}
	m.buildGeometry()

	m.BFaceSets = make(map[int][]int)
	for f := 0; f < m.Nbfac; f++ {
		fc := [3]float64{m.GeoFace.At(f, 4), m.GeoFace.At(f, 5), m.GeoFace.At(f, 6)}
		fn := [3]float64{m.GeoFace.At(f, 1), m.GeoFace.At(f, 2), m.GeoFace.At(f, 3)}
		ss := sideset(fc, fn)
		m.BFaceSets[ss] = append(m.BFaceSets[ss], f)
	}
	return
}

func (m *Mesh) buildEsup() {
	m.Esup = make(map[int][]int, m.Npoin)
	for e := 0; e < m.Nelem; e++ {
		for i := 0; i < 4; i++ {
			p := m.Inpoel[4*e+i]
			m.Esup[p] = append(m.Esup[p], e)
		}
	}
}

// buildFaces matches element faces through a sparse face-to-vertex incidence
// product: two local faces sharing all three nodes multiply to 3 in
// FToV * FToV^T
func (m *Mesh) buildFaces() (err error) {
	var (
		totalFaces = 4 * m.Nelem
	)
	spFToVTmp := sparse.NewDOK(totalFaces, m.Npoin)
	for e := 0; e < m.Nelem; e++ {
		for lf := 0; lf < 4; lf++ {
			for i := 0; i < 3; i++ {
				spFToVTmp.Set(4*e+lf, m.Inpoel[4*e+Lpofa[lf][i]], 1)
			}
		}
	}
	spFToV := spFToVTmp.ToCSR()
	spFToF := sparse.NewCSR(totalFaces, totalFaces, nil, nil, nil)
	spFToF.Mul(spFToV, spFToV.T())

	// neighbor local-face id per element local face, -1 when unmatched
	match := make([]int, totalFaces)
	for i := range match {
		match[i] = -1
	}
	spFToF.DoNonZero(func(i, j int, v float64) {
		if i != j && v > 2.5 {
			match[i] = j
		}
	})

	m.Esuel = make([]int, totalFaces)

	// boundary faces first, in element order
	for e := 0; e < m.Nelem; e++ {
		for lf := 0; lf < 4; lf++ {
			gf := 4*e + lf
			if match[gf] == -1 {
				m.Esuel[gf] = -1
				m.Esuf = append(m.Esuf, e, -1)
				for i := 0; i < 3; i++ {
					m.Inpofa = append(m.Inpofa, m.Inpoel[4*e+Lpofa[lf][i]])
				}
			}
		}
	}
	m.Nbfac = len(m.Esuf) / 2

	// internal faces, each emitted once from its lower-id element
	for e := 0; e < m.Nelem; e++ {
		for lf := 0; lf < 4; lf++ {
			gf := 4*e + lf
			if match[gf] == -1 {
				continue
			}
			en := match[gf] / 4
			m.Esuel[gf] = en
			if en > e {
				m.Esuf = append(m.Esuf, e, en)
				for i := 0; i < 3; i++ {
					m.Inpofa = append(m.Inpofa, m.Inpoel[4*e+Lpofa[lf][i]])
				}
			}
		}
	}

	nface := len(m.Esuf) / 2
	if 2*nface != m.Nbfac*2+(totalFaces-m.Nbfac) {
		err = fmt.Errorf("face matching failed: %d faces from %d element faces, %d boundary",
			nface, totalFaces, m.Nbfac)
	}
	return
}

func (m *Mesh) buildGeometry() {
	var (
		nface = len(m.Esuf) / 2
	)
	m.GeoElem = utils.NewMatrix(m.Nelem, 5)
	m.GeoFace = utils.NewMatrix(nface, 7)

	for e := 0; e < m.Nelem; e++ {
		coordel := m.CoordEl(e)
		vol := DG3D.Jacobian(coordel[0], coordel[1], coordel[2], coordel[3]) / 6.0
		if vol <= 0 {
			panic(fmt.Errorf("element %d has non-positive volume %v", e, vol))
		}
		var xc [3]float64
		for i := 0; i < 3; i++ {
			xc[i] = 0.25 * (coordel[0][i] + coordel[1][i] + coordel[2][i] +
				coordel[3][i])
		}
		// characteristic length: shortest edge
		h := math.MaxFloat64
		for a := 0; a < 4; a++ {
			for b := a + 1; b < 4; b++ {
				var d2 float64
				for i := 0; i < 3; i++ {
					dx := coordel[a][i] - coordel[b][i]
					d2 += dx * dx
				}
				h = math.Min(h, math.Sqrt(d2))
			}
		}
		m.GeoElem.Set(e, 0, vol)
		m.GeoElem.Set(e, 1, xc[0])
		m.GeoElem.Set(e, 2, xc[1])
		m.GeoElem.Set(e, 3, xc[2])
		m.GeoElem.Set(e, 4, h)
	}

	for f := 0; f < nface; f++ {
		var p [3][3]float64
		for i := 0; i < 3; i++ {
			n := m.Inpofa[3*f+i]
			p[i] = [3]float64{m.Coord[0][n], m.Coord[1][n], m.Coord[2][n]}
		}
		var e1, e2, cr [3]float64
		for i := 0; i < 3; i++ {
			e1[i] = p[1][i] - p[0][i]
			e2[i] = p[2][i] - p[0][i]
		}
		cr[0] = e1[1]*e2[2] - e1[2]*e2[1]
		cr[1] = e1[2]*e2[0] - e1[0]*e2[2]
		cr[2] = e1[0]*e2[1] - e1[1]*e2[0]
		area := 0.5 * math.Sqrt(cr[0]*cr[0]+cr[1]*cr[1]+cr[2]*cr[2])
		m.GeoFace.Set(f, 0, area)
		for i := 0; i < 3; i++ {
			m.GeoFace.Set(f, 1+i, cr[i]/(2.0*area))
			m.GeoFace.Set(f, 4+i, (p[0][i]+p[1][i]+p[2][i])/3.0)
		}
	}
}

// CoordEl returns the corner coordinates of element e
func (m *Mesh) CoordEl(e int) (coordel [4][3]float64) {
	for i := 0; i < 4; i++ {
		n := m.Inpoel[4*e+i]
		coordel[i] = [3]float64{m.Coord[0][n], m.Coord[1][n], m.Coord[2][n]}
	}
	return
}

// CoordFa returns the corner coordinates of face f
func (m *Mesh) CoordFa(f int) (coordfa [3][3]float64) {
	for i := 0; i < 3; i++ {
		n := m.Inpofa[3*f+i]
		coordfa[i] = [3]float64{m.Coord[0][n], m.Coord[1][n], m.Coord[2][n]}
	}
	return
}

// Nface returns the total number of faces
func (m *Mesh) Nface() int { return len(m.Esuf) / 2 }
