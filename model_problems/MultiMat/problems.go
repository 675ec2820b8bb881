package MultiMat

/*
	Canned problem initializations used by the solve command and the tests.
	All of them build conserved states from primitive inputs through the
	material EOS, so the initial condition is thermodynamically consistent.
*/

// ConservedState assembles the conserved state vector from volume
// fractions, material densities, a common velocity and a common pressure
func ConservedState(mat []Material, nsld int, alpha, rho []float64,
	vel [3]float64, p float64) (u []float64) {
	nmat := len(mat)
	u = make([]float64, NumComponents(nmat, nsld))

	var rhob float64
	for k := 0; k < nmat; k++ {
		u[VolfracIdx(nmat, k)] = alpha[k]
		u[DensityIdx(nmat, k)] = alpha[k] * rho[k]
		u[EnergyIdx(nmat, k)] = alpha[k] * mat[k].TotalEnergy(rho[k],
			vel[0], vel[1], vel[2], p)
		rhob += alpha[k] * rho[k]
	}
	for idir := 0; idir < 3; idir++ {
		u[MomentumIdx(nmat, idir)] = rhob * vel[idir]
	}
	for k := 0; k < nmat; k++ {
		if mat[k].SolidIndex > 0 {
			// unstressed solid: identity inverse deformation gradient
			sx := mat[k].SolidIndex
			for i := 0; i < 3; i++ {
				u[DeformIdx(nmat, sx, i, i)] = 1.0
			}
		}
	}
	return
}

// UniformIC is a spatially uniform initial condition
func UniformIC(mat []Material, nsld int, alpha, rho []float64,
	vel [3]float64, p float64) ICFn {
	u := ConservedState(mat, nsld, alpha, rho, vel, p)
	return func(x, y, z, t float64) []float64 {
		out := make([]float64, len(u))
		copy(out, u)
		return out
	}
}

// PlanarIC separates two uniform states at the plane x = x0
func PlanarIC(mat []Material, nsld int, x0 float64,
	alphaL, rhoL []float64, velL [3]float64, pL float64,
	alphaR, rhoR []float64, velR [3]float64, pR float64) ICFn {
	ul := ConservedState(mat, nsld, alphaL, rhoL, velL, pL)
	ur := ConservedState(mat, nsld, alphaR, rhoR, velR, pR)
	return func(x, y, z, t float64) []float64 {
		src := ul
		if x >= x0 {
			src = ur
		}
		out := make([]float64, len(src))
		copy(out, src)
		return out
	}
}

// SodIC is the single-material Sod shock tube on x in [0,1]
func SodIC(mat []Material) ICFn {
	return PlanarIC(mat, 0, 0.5,
		[]float64{1.0}, []float64{1.0}, [3]float64{}, 1.0,
		[]float64{1.0}, []float64{0.125}, [3]float64{}, 0.1)
}
