package DG3D

/*
	Dubiner modal basis on the unit (reference) tetrahedron with vertices
	(0,0,0), (1,0,0), (0,1,0), (0,0,1). The basis is orthogonal over the
	reference element under unit weight, so the mass matrix is diagonal with
	the closed-form entries returned by MassMatrixDubiner. Supported orders:
	P0/P1/P2 with 1/4/10 modes, P3 with 20 modes for the quadrature rules
	only.
*/

// EvalBasis computes the Dubiner basis functions at reference coordinates
func EvalBasis(ndof int, xi, eta, zeta float64) (B []float64) {
	B = make([]float64, ndof)
	for i := range B {
		B[i] = 1.0
	}

	if ndof > 1 { // DG(P1)
		B[1] = 2.0*xi + eta + zeta - 1.0
		B[2] = 3.0*eta + zeta - 1.0
		B[3] = 4.0*zeta - 1.0

		if ndof > 4 { // DG(P2)
			B[4] = 6.0*xi*xi + eta*eta + zeta*zeta +
				6.0*xi*eta + 6.0*xi*zeta + 2.0*eta*zeta -
				6.0*xi - 2.0*eta - 2.0*zeta + 1.0
			B[5] = 5.0*eta*eta + zeta*zeta +
				10.0*xi*eta + 2.0*xi*zeta + 6.0*eta*zeta -
				2.0*xi - 6.0*eta - 2.0*zeta + 1.0
			B[6] = 6.0*zeta*zeta + 12.0*xi*zeta + 6.0*eta*zeta - 2.0*xi -
				eta - 7.0*zeta + 1.0
			B[7] = 10.0*eta*eta + zeta*zeta + 8.0*eta*zeta -
				8.0*eta - 2.0*zeta + 1.0
			B[8] = 6.0*zeta*zeta + 18.0*eta*zeta - 3.0*eta - 7.0*zeta + 1.0
			B[9] = 15.0*zeta*zeta - 10.0*zeta + 1.0
		}
	}
	return
}

// EvalDBdxP1 computes physical derivatives of the P1 basis functions using
// dB/dx = dB/dxi . dxi/dx with the constant inverse Jacobian
func EvalDBdxP1(ndof int, jacInv [3][3]float64) (dBdx [3][]float64) {
	for i := 0; i < 3; i++ {
		dBdx[i] = make([]float64, ndof)
	}

	dBdxi := [3][3]float64{
		{2.0, 1.0, 1.0}, // B[1]
		{0.0, 3.0, 1.0}, // B[2]
		{0.0, 0.0, 4.0}, // B[3]
	}

	for ib := 1; ib < 4 && ib < ndof; ib++ {
		for idir := 0; idir < 3; idir++ {
			dBdx[idir][ib] = dBdxi[ib-1][0]*jacInv[0][idir] +
				dBdxi[ib-1][1]*jacInv[1][idir] +
				dBdxi[ib-1][2]*jacInv[2][idir]
		}
	}
	return
}

// EvalDBdxP2 augments dBdx with the P2 basis derivatives at a reference point
func EvalDBdxP2(xi, eta, zeta float64, jacInv [3][3]float64, dBdx [3][]float64) {
	var dBdxi [6][3]float64

	dBdxi[0][0] = 12.0*xi + 6.0*eta + 6.0*zeta - 6.0
	dBdxi[0][1] = 6.0*xi + 2.0*eta + 2.0*zeta - 2.0
	dBdxi[0][2] = 6.0*xi + 2.0*eta + 2.0*zeta - 2.0

	dBdxi[1][0] = 10.0*eta + 2.0*zeta - 2.0
	dBdxi[1][1] = 10.0*xi + 10.0*eta + 6.0*zeta - 6.0
	dBdxi[1][2] = 2.0*xi + 6.0*eta + 2.0*zeta - 2.0

	dBdxi[2][0] = 12.0*zeta - 2.0
	dBdxi[2][1] = 6.0*zeta - 1.0
	dBdxi[2][2] = 12.0*xi + 6.0*eta + 12.0*zeta - 7.0

	dBdxi[3][0] = 0
	dBdxi[3][1] = 20.0*eta + 8.0*zeta - 8.0
	dBdxi[3][2] = 8.0*eta + 2.0*zeta - 2.0

	dBdxi[4][0] = 0
	dBdxi[4][1] = 18.0*zeta - 3.0
	dBdxi[4][2] = 18.0*eta + 12.0*zeta - 7.0

	dBdxi[5][0] = 0
	dBdxi[5][1] = 0
	dBdxi[5][2] = 30.0*zeta - 10.0

	for ib := 0; ib < 6; ib++ {
		for idir := 0; idir < 3; idir++ {
			dBdx[idir][ib+4] = dBdxi[ib][0]*jacInv[0][idir] +
				dBdxi[ib][1]*jacInv[1][idir] +
				dBdxi[ib][2]*jacInv[2][idir]
		}
	}
}

// Jacobian computes the determinant of the affine transform Jacobian, which
// equals six times the signed volume of the tetrahedron (a,b,c,d)
func Jacobian(a, b, c, d [3]float64) float64 {
	ba := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	ca := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	da := [3]float64{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
	return ba[0]*(ca[1]*da[2]-ca[2]*da[1]) -
		ba[1]*(ca[0]*da[2]-ca[2]*da[0]) +
		ba[2]*(ca[0]*da[1]-ca[1]*da[0])
}

// InverseJacobian computes dxi/dx for the affine map of the tetrahedron.
// jacInv[j][i] is the derivative of reference coordinate j with respect to
// physical coordinate i.
func InverseJacobian(a, b, c, d [3]float64) (jacInv [3][3]float64) {
	// Jacobian columns are the physical edge vectors: J[i][j] = dx_i/dxi_j
	var J [3][3]float64
	for i := 0; i < 3; i++ {
		J[i][0] = b[i] - a[i]
		J[i][1] = c[i] - a[i]
		J[i][2] = d[i] - a[i]
	}
	det := J[0][0]*(J[1][1]*J[2][2]-J[1][2]*J[2][1]) -
		J[0][1]*(J[1][0]*J[2][2]-J[1][2]*J[2][0]) +
		J[0][2]*(J[1][0]*J[2][1]-J[1][1]*J[2][0])
	oodet := 1. / det

	jacInv[0][0] = (J[1][1]*J[2][2] - J[1][2]*J[2][1]) * oodet
	jacInv[0][1] = -(J[0][1]*J[2][2] - J[0][2]*J[2][1]) * oodet
	jacInv[0][2] = (J[0][1]*J[1][2] - J[0][2]*J[1][1]) * oodet
	jacInv[1][0] = -(J[1][0]*J[2][2] - J[1][2]*J[2][0]) * oodet
	jacInv[1][1] = (J[0][0]*J[2][2] - J[0][2]*J[2][0]) * oodet
	jacInv[1][2] = -(J[0][0]*J[1][2] - J[0][2]*J[1][0]) * oodet
	jacInv[2][0] = (J[1][0]*J[2][1] - J[1][1]*J[2][0]) * oodet
	jacInv[2][1] = -(J[0][0]*J[2][1] - J[0][1]*J[2][0]) * oodet
	jacInv[2][2] = (J[0][0]*J[1][1] - J[0][1]*J[1][0]) * oodet
	return
}

// EvalGPTri maps the igp-th face quadrature point to physical space via the
// barycentric coordinates of the triangular face
func EvalGPTri(igp int, coordfa [3][3]float64, coordgp [2][]float64) (gp [3]float64) {
	shp1 := 1.0 - coordgp[0][igp] - coordgp[1][igp]
	shp2 := coordgp[0][igp]
	shp3 := coordgp[1][igp]
	for i := 0; i < 3; i++ {
		gp[i] = coordfa[0][i]*shp1 + coordfa[1][i]*shp2 + coordfa[2][i]*shp3
	}
	return
}

// EvalGPTet maps the igp-th volume quadrature point to physical space via the
// barycentric coordinates of the tetrahedron
func EvalGPTet(igp int, coordel [4][3]float64, coordgp [3][]float64) (gp [3]float64) {
	shp1 := 1.0 - coordgp[0][igp] - coordgp[1][igp] - coordgp[2][igp]
	shp2 := coordgp[0][igp]
	shp3 := coordgp[1][igp]
	shp4 := coordgp[2][igp]
	for i := 0; i < 3; i++ {
		gp[i] = coordel[0][i]*shp1 + coordel[1][i]*shp2 +
			coordel[2][i]*shp3 + coordel[3][i]*shp4
	}
	return
}

// RefCoords computes the reference coordinates of a physical point inside the
// tetrahedron via volume-coordinate ratios
func RefCoords(gp [3]float64, coordel [4][3]float64, detT float64) (ref [3]float64) {
	ref[0] = Jacobian(coordel[0], gp, coordel[2], coordel[3]) / detT
	ref[1] = Jacobian(coordel[0], coordel[1], gp, coordel[3]) / detT
	ref[2] = Jacobian(coordel[0], coordel[1], coordel[2], gp) / detT
	return
}

// MassMatrixDubiner returns the diagonal of the Dubiner mass matrix for an
// element of volume vol (quadrature weights normalized to unit sum)
func MassMatrixDubiner(ndof int, vol float64) (L []float64) {
	L = make([]float64, ndof)
	L[0] = vol
	if ndof > 1 {
		L[1] = vol / 10.0
		L[2] = vol * 3.0 / 10.0
		L[3] = vol * 3.0 / 5.0
	}
	if ndof > 4 {
		L[4] = vol / 35.0
		L[5] = vol / 21.0
		L[6] = vol / 14.0
		L[7] = vol / 7.0
		L[8] = vol * 3.0 / 14.0
		L[9] = vol * 3.0 / 7.0
	}
	return
}

// EvalDBdxi computes the reference-space gradients of the Dubiner basis at a
// reference point
func EvalDBdxi(ndof int, xi, eta, zeta float64) (dBdxi [3][]float64) {
	for i := 0; i < 3; i++ {
		dBdxi[i] = make([]float64, ndof)
	}
	if ndof > 1 {
		dBdxi[0][1], dBdxi[1][1], dBdxi[2][1] = 2.0, 1.0, 1.0
		dBdxi[0][2], dBdxi[1][2], dBdxi[2][2] = 0.0, 3.0, 1.0
		dBdxi[0][3], dBdxi[1][3], dBdxi[2][3] = 0.0, 0.0, 4.0
	}
	if ndof > 4 {
		dBdxi[0][4] = 12.0*xi + 6.0*eta + 6.0*zeta - 6.0
		dBdxi[1][4] = 6.0*xi + 2.0*eta + 2.0*zeta - 2.0
		dBdxi[2][4] = 6.0*xi + 2.0*eta + 2.0*zeta - 2.0

		dBdxi[0][5] = 10.0*eta + 2.0*zeta - 2.0
		dBdxi[1][5] = 10.0*xi + 10.0*eta + 6.0*zeta - 6.0
		dBdxi[2][5] = 2.0*xi + 6.0*eta + 2.0*zeta - 2.0

		dBdxi[0][6] = 12.0*zeta - 2.0
		dBdxi[1][6] = 6.0*zeta - 1.0
		dBdxi[2][6] = 12.0*xi + 6.0*eta + 12.0*zeta - 7.0

		dBdxi[1][7] = 20.0*eta + 8.0*zeta - 8.0
		dBdxi[2][7] = 8.0*eta + 2.0*zeta - 2.0

		dBdxi[1][8] = 18.0*zeta - 3.0
		dBdxi[2][8] = 18.0*eta + 12.0*zeta - 7.0

		dBdxi[2][9] = 30.0*zeta - 10.0
	}
	return
}
