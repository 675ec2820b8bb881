package DG3D

import "fmt"

/*
	Gauss quadrature rules on the reference (unit) tetrahedron and the
	reference (unit) triangle. Weights are normalized to sum to one, so that
	integrals are obtained by multiplying with the element volume or the face
	area. The rule sizes are chosen so that polynomials of degree 2p are
	integrated exactly for the number of modal DOFs in use, except for 20
	DOFs (p = 3), whose 14-point volume rule is exact only to degree 5.
*/

// NGvol returns the number of Gauss points for volume integrals given ndof
func NGvol(ndof int) int {
	switch ndof {
	case 1:
		return 1
	case 4:
		return 5
	case 10:
		return 11
	case 20:
		return 14
	default:
		panic(fmt.Errorf("unsupported ndof %d for volume quadrature", ndof))
	}
}

// NGfa returns the number of Gauss points for face integrals given ndof
func NGfa(ndof int) int {
	switch ndof {
	case 1:
		return 1
	case 4:
		return 3
	case 10:
		return 6
	case 20:
		return 12
	default:
		panic(fmt.Errorf("unsupported ndof %d for face quadrature", ndof))
	}
}

// GaussQuadratureTet returns coordinates (xi, eta, zeta) and weights of the
// ng-point rule on the unit tetrahedron
func GaussQuadratureTet(ng int) (coordgp [3][]float64, wgp []float64) {
	for i := 0; i < 3; i++ {
		coordgp[i] = make([]float64, ng)
	}
	wgp = make([]float64, ng)

	switch ng {
	case 1:
		coordgp[0][0], coordgp[1][0], coordgp[2][0] = 0.25, 0.25, 0.25
		wgp[0] = 1.0

	case 4: // degree 2
		const (
			a = 0.5854101966249685
			b = 0.1381966011250105
		)
		pts := [4][3]float64{{a, b, b}, {b, a, b}, {b, b, a}, {b, b, b}}
		for i, p := range pts {
			coordgp[0][i], coordgp[1][i], coordgp[2][i] = p[0], p[1], p[2]
			wgp[i] = 0.25
		}

	case 5: // degree 3
		coordgp[0][0], coordgp[1][0], coordgp[2][0] = 0.25, 0.25, 0.25
		wgp[0] = -0.8
		const a, b = 0.5, 1.0 / 6.0
		pts := [4][3]float64{{a, b, b}, {b, a, b}, {b, b, a}, {b, b, b}}
		for i, p := range pts {
			coordgp[0][i+1], coordgp[1][i+1], coordgp[2][i+1] = p[0], p[1], p[2]
			wgp[i+1] = 0.45
		}

	case 11: // degree 4 (Keast)
		const (
			w1 = -0.0789333333333333
			w2 = 0.0457333333333333
			w3 = 0.1493333333333333
			b2 = 0.0714285714285714
			g2 = 0.7857142857142857
			c1 = 0.3994035761667992
			c2 = 0.1005964238332008
		)
		ig := 0
		put := func(x, y, z, w float64) {
			coordgp[0][ig], coordgp[1][ig], coordgp[2][ig] = x, y, z
			wgp[ig] = w
			ig++
		}
		put(0.25, 0.25, 0.25, w1)
		put(g2, b2, b2, w2)
		put(b2, g2, b2, w2)
		put(b2, b2, g2, w2)
		put(b2, b2, b2, w2)
		put(c1, c1, c2, w3)
		put(c1, c2, c1, w3)
		put(c2, c1, c1, w3)
		put(c1, c2, c2, w3)
		put(c2, c1, c2, w3)
		put(c2, c2, c1, w3)

	case 14: // degree 5
		const (
			g1 = 0.0927352503108912
			w1 = 0.0734930431163619
			g2 = 0.3108859192633005
			w2 = 0.1126879257180159
			g3 = 0.0455037041256497
			w3 = 0.0425460207770812
		)
		ig := 0
		put := func(x, y, z, w float64) {
			coordgp[0][ig], coordgp[1][ig], coordgp[2][ig] = x, y, z
			wgp[ig] = w
			ig++
		}
		h1 := 1.0 - 3.0*g1
		put(g1, g1, g1, w1)
		put(h1, g1, g1, w1)
		put(g1, h1, g1, w1)
		put(g1, g1, h1, w1)
		h2 := 1.0 - 3.0*g2
		put(g2, g2, g2, w2)
		put(h2, g2, g2, w2)
		put(g2, h2, g2, w2)
		put(g2, g2, h2, w2)
		h3 := 0.5 - g3
		put(g3, g3, h3, w3)
		put(g3, h3, g3, w3)
		put(h3, g3, g3, w3)
		put(g3, h3, h3, w3)
		put(h3, g3, h3, w3)
		put(h3, h3, g3, w3)

	default:
		panic(fmt.Errorf("unsupported tetrahedron quadrature rule ng = %d", ng))
	}
	return
}

// GaussQuadratureTri returns coordinates (xi, eta) and weights of the
// ng-point rule on the unit triangle
func GaussQuadratureTri(ng int) (coordgp [2][]float64, wgp []float64) {
	for i := 0; i < 2; i++ {
		coordgp[i] = make([]float64, ng)
	}
	wgp = make([]float64, ng)

	switch ng {
	case 1:
		coordgp[0][0], coordgp[1][0] = 1.0/3.0, 1.0/3.0
		wgp[0] = 1.0

	case 3: // degree 2
		const a, b = 1.0 / 6.0, 2.0 / 3.0
		pts := [3][2]float64{{a, a}, {b, a}, {a, b}}
		for i, p := range pts {
			coordgp[0][i], coordgp[1][i] = p[0], p[1]
			wgp[i] = 1.0 / 3.0
		}

	case 6: // degree 4
		const (
			a  = 0.4459484909159649
			wa = 0.2233815896780115
			b  = 0.0915762135097707
			wb = 0.1099517436553219
		)
		ig := 0
		put := func(x, y, w float64) {
			coordgp[0][ig], coordgp[1][ig] = x, y
			wgp[ig] = w
			ig++
		}
		put(a, a, wa)
		put(1.0-2.0*a, a, wa)
		put(a, 1.0-2.0*a, wa)
		put(b, b, wb)
		put(1.0-2.0*b, b, wb)
		put(b, 1.0-2.0*b, wb)

	case 12: // degree 6
		const (
			a1 = 0.0630890144915022
			w1 = 0.0508449063702068
			a2 = 0.2492867451709104
			w2 = 0.1167862757263794
			a3 = 0.0531450498448169
			b3 = 0.3103524510337844
			w3 = 0.0828510756183736
		)
		ig := 0
		put := func(x, y, w float64) {
			coordgp[0][ig], coordgp[1][ig] = x, y
			wgp[ig] = w
			ig++
		}
		put(a1, a1, w1)
		put(1.0-2.0*a1, a1, w1)
		put(a1, 1.0-2.0*a1, w1)
		put(a2, a2, w2)
		put(1.0-2.0*a2, a2, w2)
		put(a2, 1.0-2.0*a2, w2)
		c3 := 1.0 - a3 - b3
		put(a3, b3, w3)
		put(b3, a3, w3)
		put(a3, c3, w3)
		put(c3, a3, w3)
		put(b3, c3, w3)
		put(c3, b3, w3)

	default:
		panic(fmt.Errorf("unsupported triangle quadrature rule ng = %d", ng))
	}
	return
}
