package MultiMat

/*
	Component-index maps for the multi-material Euler system. Conserved
	layout for nmat materials and nsld solid materials:

		[0, nmat)                  volume fractions alpha_k
		[nmat, 2*nmat)             partial densities alpha_k*rho_k
		[2*nmat, 2*nmat+3)         bulk momentum
		[2*nmat+3, 3*nmat+3)       partial energies alpha_k*rho_k*E_k
		[3*nmat+3, ...)            inverse deformation gradients g_k (9 each)

	Primitive layout: material pressures alpha_k*p_k in [0, nmat), bulk
	velocity in [nmat, nmat+3).

	The Dof variants give the column into a Fields array with component
	stride rdof.
*/

func VolfracIdx(nmat, k int) int { return k }

func DensityIdx(nmat, k int) int { return nmat + k }

func MomentumIdx(nmat, idir int) int { return 2*nmat + idir }

func EnergyIdx(nmat, k int) int { return 2*nmat + 3 + k }

// DeformIdx indexes entry (i,j) of the inverse deformation gradient of the
// solid with 1-based solid index solidx
func DeformIdx(nmat, solidx, i, j int) int {
	return 3*nmat + 3 + 9*(solidx-1) + 3*i + j
}

func PressureIdx(nmat, k int) int { return k }

func VelocityIdx(nmat, idir int) int { return nmat + idir }

func VolfracDofIdx(nmat, k, rdof, idof int) int {
	return VolfracIdx(nmat, k)*rdof + idof
}

func DensityDofIdx(nmat, k, rdof, idof int) int {
	return DensityIdx(nmat, k)*rdof + idof
}

func MomentumDofIdx(nmat, idir, rdof, idof int) int {
	return MomentumIdx(nmat, idir)*rdof + idof
}

func EnergyDofIdx(nmat, k, rdof, idof int) int {
	return EnergyIdx(nmat, k)*rdof + idof
}

func PressureDofIdx(nmat, k, rdof, idof int) int {
	return PressureIdx(nmat, k)*rdof + idof
}

func VelocityDofIdx(nmat, idir, rdof, idof int) int {
	return VelocityIdx(nmat, idir)*rdof + idof
}

// NumComponents returns the number of conserved components for nmat
// materials of which nsld are solids
func NumComponents(nmat, nsld int) int { return 3*nmat + 3 + 9*nsld }

// NumPrimitives returns the number of stored primitive quantities
func NumPrimitives(nmat int) int { return nmat + 3 }
