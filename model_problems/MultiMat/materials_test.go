package MultiMat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStiffenedGasRoundTrip(t *testing.T) {
	mat := Material{EOS: StiffenedGas, Gamma: 4.4, PStiff: 6.0e8, Cv: 4186.0}

	var (
		rho = 1000.0
		u   = 30.0
		p   = 1.0e9
	)
	rhoE := mat.TotalEnergy(rho, u, 0, 0, p)
	apr := mat.Pressure(rho, u, 0, 0, rhoE, 1.0, 0)
	assert.InDelta(t, p, apr, 1e-3*p)

	a := mat.SoundSpeed(rho, apr, 1.0, 0)
	// a^2 = gamma*(p + pstiff)/rho
	assert.InDelta(t, math.Sqrt(4.4*(p+6.0e8)/rho), a, 1e-8*a)

	temp := mat.Temperature(rho, u, 0, 0, rhoE, 1.0)
	rho2 := mat.Density(p, temp)
	assert.InDelta(t, rho, rho2, 1e-9*rho)
}

func TestStiffenedGasPartialQuantities(t *testing.T) {
	mat := Material{EOS: StiffenedGas, Gamma: 1.4, Cv: 717.5}

	var (
		alpha = 0.3
		rho   = 1.2
		p     = 101325.0
	)
	arho := alpha * rho
	arhoE := alpha * mat.TotalEnergy(rho, 10, -5, 2, p)
	apr := mat.Pressure(arho, 10, -5, 2, arhoE, alpha, 0)
	assert.InDelta(t, alpha*p, apr, 1e-8*alpha*p)
}

func TestJWLFinite(t *testing.T) {
	// Detonation-product parameters (TNT-like, SI units)
	mat := Material{
		EOS:    JWL,
		A:      3.712e11,
		B:      3.23e9,
		R1:     4.15,
		R2:     0.95,
		Rho0:   1630.0,
		Omega:  0.3,
		E0:     4.29e6,
		Cv:     1000.0,
		RhoRef: 1630.0,
		TRef:   300.0,
	}

	var (
		rho = 1630.0
		p   = 2.0e10
	)
	rhoE := mat.TotalEnergy(rho, 0, 0, 0, p)
	assert.False(t, math.IsNaN(rhoE) || math.IsInf(rhoE, 0))

	apr := mat.Pressure(rho, 0, 0, 0, rhoE, 1.0, 0)
	assert.InDelta(t, p, apr, 1e-6*p)

	a := mat.SoundSpeed(rho, apr, 1.0, 0)
	assert.True(t, a > 0 && !math.IsNaN(a) && !math.IsInf(a, 0))
}

func TestJWLDensityInversion(t *testing.T) {
	mat := Material{
		EOS:    JWL,
		A:      3.712e11,
		B:      3.23e9,
		R1:     4.15,
		R2:     0.95,
		Rho0:   1630.0,
		Omega:  0.3,
		E0:     4.29e6,
		Cv:     1000.0,
		RhoRef: 1630.0,
		TRef:   300.0,
	}
	var (
		rho  = 900.0
		temp = 2500.0
	)
	// forward pressure at (rho, T), then invert
	e1 := math.Exp(-mat.R1 * mat.Rho0 / rho)
	e2 := math.Exp(-mat.R2 * mat.Rho0 / rho)
	p := mat.A*(1.0-mat.Omega*rho/(mat.R1*mat.Rho0))*e1 +
		mat.B*(1.0-mat.Omega*rho/(mat.R2*mat.Rho0))*e2 +
		mat.Omega*rho*mat.Cv*temp

	rho2 := mat.Density(p, temp)
	assert.InDelta(t, rho, rho2, 1e-6*rho)
}

func TestSmallShearSolidStiffening(t *testing.T) {
	fluid := Material{EOS: StiffenedGas, Gamma: 1.4, Cv: 717.5}
	solid := Material{EOS: SmallShearSolid, Gamma: 1.4, Cv: 717.5,
		Mu: 1.0e9, SolidIndex: 1}

	var (
		rho = 2700.0
		p   = 1.0e5
	)
	af := fluid.SoundSpeed(rho, p, 1.0, 0)
	as := solid.SoundSpeed(rho, p, 1.0, 0)
	assert.True(t, as > af, "shear modulus must stiffen the sound speed")
}

func TestMinEffPressureFloor(t *testing.T) {
	mat := Material{EOS: StiffenedGas, Gamma: 4.4, PStiff: 6.0e8, Cv: 4186.0}
	// stiffened materials tolerate negative partial pressures down to the
	// stiffening constant
	assert.True(t, mat.MinEffPressure(1e-15, 1.0) < 0)
	assert.InDelta(t, 1e-15-6.0e8, mat.MinEffPressure(1e-15, 1.0), 1.0)
}
