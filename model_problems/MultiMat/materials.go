package MultiMat

import (
	"fmt"
	"math"

	"github.com/notargets/multimat/InputParameters"
)

// EOSType selects the equation-of-state closure of a material. Dispatch is a
// switch on this enum: the EOS is evaluated at every Gauss point, so the
// closed set of variants is kept inline rather than behind an interface.
type EOSType uint8

const (
	StiffenedGas EOSType = iota
	JWL
	SmallShearSolid
)

var EOSNames = map[string]EOSType{
	"stiffenedgas":    StiffenedGas,
	"jwl":             JWL,
	"smallshearsolid": SmallShearSolid,
}

// Material holds the EOS parameters of one material. All methods are pure
// functions of their arguments and the parameters.
type Material struct {
	EOS    EOSType
	Gamma  float64 // ratio of specific heats
	PStiff float64 // stiffened pressure constant
	Cv     float64 // specific heat at constant volume
	Mu     float64 // shear modulus (small-shear solid)
	// JWL parameters
	A, B, R1, R2   float64
	Rho0, Omega    float64
	E0             float64 // specific detonation energy
	RhoRef, TRef   float64 // reference state for density inversion
	SolidIndex     int     // 0 for fluids, >= 1 for solids
}

// NewMaterials builds the material block from the input deck
func NewMaterials(mps []InputParameters.MaterialParameters) (mat []Material, err error) {
	for i, mp := range mps {
		t, ok := EOSNames[mp.EOS]
		if !ok {
			return nil, fmt.Errorf("material %d: unknown EOS %q", i+1, mp.EOS)
		}
		mat = append(mat, Material{
			EOS:        t,
			Gamma:      mp.Gamma,
			PStiff:     mp.PStiff,
			Cv:         mp.Cv,
			Mu:         mp.Mu,
			A:          mp.A,
			B:          mp.B,
			R1:         mp.R1,
			R2:         mp.R2,
			Rho0:       mp.Rho0,
			Omega:      mp.Omega,
			E0:         mp.E0,
			RhoRef:     mp.RhoRef,
			TRef:       mp.TRef,
			SolidIndex: mp.SolidIndex,
		})
	}
	return
}

// Pressure computes the material partial pressure alpha_k*p_k from the
// partial density, velocity and partial total energy
func (m *Material) Pressure(arho, u, v, wvel, arhoE, alpha float64, imat int) (apr float64) {
	ae := arhoE - 0.5*arho*(u*u+v*v+wvel*wvel)

	switch m.EOS {
	case StiffenedGas, SmallShearSolid:
		apr = ae*(m.Gamma-1.0) - alpha*m.Gamma*m.PStiff
	case JWL:
		r1a := m.R1 * alpha * m.Rho0 / arho
		r2a := m.R2 * alpha * m.Rho0 / arho
		apr = m.A*(alpha-m.Omega*arho/(m.Rho0*m.R1))*math.Exp(-r1a) +
			m.B*(alpha-m.Omega*arho/(m.Rho0*m.R2))*math.Exp(-r2a) +
			m.Omega*(ae-arho*m.E0)
	}

	if math.IsNaN(apr) || math.IsInf(apr, 0) {
		panic(fmt.Errorf("material %d has nan/inf partial pressure %v, "+
			"volume fraction %v, partial density %v, total energy %v, "+
			"velocity %v,%v,%v", imat, apr, alpha, arho, arhoE, u, v, wvel))
	}
	return
}

// SoundSpeed computes the material speed of sound from the partial density
// and partial pressure
func (m *Material) SoundSpeed(arho, apr, alpha float64, imat int) (a float64) {
	switch m.EOS {
	case StiffenedGas:
		peff := math.Max(1.0e-15, apr+alpha*m.PStiff)
		a = math.Sqrt(m.Gamma * peff / arho)

	case SmallShearSolid:
		peff := math.Max(1.0e-15, apr+alpha*m.PStiff)
		a = math.Sqrt((m.Gamma*peff + (4.0/3.0)*m.Mu*alpha) / arho)

	case JWL:
		rho := arho / alpha
		pr := apr / alpha
		e1 := math.Exp(-m.R1 * m.Rho0 / rho)
		e2 := math.Exp(-m.R2 * m.Rho0 / rho)
		fa := m.A * (1.0 - m.Omega*rho/(m.R1*m.Rho0)) * e1
		fb := m.B * (1.0 - m.Omega*rho/(m.R2*m.Rho0)) * e2
		dfa := e1 * (m.A*m.R1*m.Rho0/(rho*rho)*(1.0-m.Omega*rho/(m.R1*m.Rho0)) -
			m.A*m.Omega/(m.R1*m.Rho0))
		dfb := e2 * (m.B*m.R2*m.Rho0/(rho*rho)*(1.0-m.Omega*rho/(m.R2*m.Rho0)) -
			m.B*m.Omega/(m.R2*m.Rho0))
		c2 := dfa + dfb + (pr-fa-fb)/rho + m.Omega*pr/rho
		a = math.Sqrt(math.Max(c2, 1.0e-15))
	}

	if math.IsNaN(a) || math.IsInf(a, 0) {
		panic(fmt.Errorf("material %d has nan/inf sound speed %v, volume "+
			"fraction %v, partial density %v, partial pressure %v",
			imat, a, alpha, arho, apr))
	}
	return
}

// Density computes the material density from pressure and temperature
func (m *Material) Density(pr, temp float64) (rho float64) {
	switch m.EOS {
	case StiffenedGas, SmallShearSolid:
		rho = (pr + m.PStiff) / ((m.Gamma - 1.0) * m.Cv * temp)

	case JWL:
		// No closed form: bisect p(rho,T) - pr about the reference state
		f := func(r float64) float64 {
			e1 := math.Exp(-m.R1 * m.Rho0 / r)
			e2 := math.Exp(-m.R2 * m.Rho0 / r)
			p := m.A*(1.0-m.Omega*r/(m.R1*m.Rho0))*e1 +
				m.B*(1.0-m.Omega*r/(m.R2*m.Rho0))*e2 +
				m.Omega*r*m.Cv*temp
			return p - pr
		}
		lo, hi := 1.0e-3*m.RhoRef, 1.0e3*m.RhoRef
		flo := f(lo)
		// shrink the upper bound until the interval brackets a root
		for it := 0; it < 60 && (f(hi) > 0) == (flo > 0) && hi > 2.0*lo; it++ {
			hi *= 0.5
		}
		for iter := 0; iter < 200; iter++ {
			mid := 0.5 * (lo + hi)
			fm := f(mid)
			if fm == 0 || (hi-lo)/mid < 1.0e-14 {
				return mid
			}
			if (fm > 0) == (flo > 0) {
				lo, flo = mid, fm
			} else {
				hi = mid
			}
		}
		rho = 0.5 * (lo + hi)
	}
	return
}

// Temperature computes the material temperature from the partial conserved
// state
func (m *Material) Temperature(arho, u, v, wvel, arhoE, alpha float64) (t float64) {
	switch m.EOS {
	case StiffenedGas, SmallShearSolid:
		t = (arhoE - 0.5*arho*(u*u+v*v+wvel*wvel) - alpha*m.PStiff) / (arho * m.Cv)
	case JWL:
		t = (arhoE - 0.5*arho*(u*u+v*v+wvel*wvel) - arho*m.E0) / (arho * m.Cv)
	}
	return
}

// TotalEnergy computes the material total energy density rho_k*E_k from
// density, velocity and pressure
func (m *Material) TotalEnergy(rho, u, v, wvel, pr float64) (rhoE float64) {
	q := 0.5 * rho * (u*u + v*v + wvel*wvel)
	switch m.EOS {
	case StiffenedGas, SmallShearSolid:
		rhoE = (pr+m.Gamma*m.PStiff)/(m.Gamma-1.0) + q
	case JWL:
		e1 := math.Exp(-m.R1 * m.Rho0 / rho)
		e2 := math.Exp(-m.R2 * m.Rho0 / rho)
		fa := m.A * (1.0 - m.Omega*rho/(m.R1*m.Rho0)) * e1
		fb := m.B * (1.0 - m.Omega*rho/(m.R2*m.Rho0)) * e2
		rhoE = rho*m.E0 + (pr-fa-fb)/m.Omega + q
	}
	return
}

// MinEffPressure returns the smallest material partial pressure alpha*p_k
// that keeps the effective pressure (and hence the sound speed) physical
func (m *Material) MinEffPressure(min, alpha float64) float64 {
	switch m.EOS {
	case StiffenedGas, SmallShearSolid:
		return min - alpha*m.PStiff
	default:
		return min
	}
}

// ConstrainPressure floors the partial pressure at the EOS-dependent minimum
func (m *Material) ConstrainPressure(apr, alpha float64) float64 {
	return math.Max(apr, m.MinEffPressure(1.0e-15, alpha))
}
