package MultiMat

import (
	"fmt"
	"math"
	"strings"
)

type FluxType uint

const (
	FLUX_AUSM FluxType = iota
	FLUX_HLLC
	FLUX_HLL
	FLUX_Rusanov
	FLUX_LaxFriedrichs
)

var (
	FluxNames = map[string]FluxType{
		"ausm":          FLUX_AUSM,
		"hllc":          FLUX_HLLC,
		"hll":           FLUX_HLL,
		"rusanov":       FLUX_Rusanov,
		"laxfriedrichs": FLUX_LaxFriedrichs,
	}
	FluxPrintNames = []string{"AUSM", "HLLC", "HLL", "Rusanov", "Lax Friedrichs"}
)

func (ft FluxType) Print() (txt string) {
	txt = FluxPrintNames[ft]
	return
}

func NewFluxType(label string) (ft FluxType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(label)
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("unable to use flux named %s", label)
		panic(err)
	}
	return
}

// RiemannFlux computes the numerical flux across a face with unit normal fn
// pointing from the left to the right state. The input states carry the
// conserved components with the primitive quantities appended. The returned
// vector has the ncomp numerical fluxes, followed by the nmat
// Riemann-advected partial pressures and the Riemann normal velocity.
type RiemannFlux func(s *Solver, fn [3]float64, uL, uR []float64) []float64

// faceState gathers the quantities shared by all flux functions
type faceState struct {
	rho      float64    // bulk density
	u, v, w  float64    // bulk velocity
	vn       float64    // face-normal velocity
	pb       float64    // bulk pressure
	al, apm  []float64  // volume fractions, partial pressures
	am       []float64  // material sound speeds
	ac       float64    // mixture sound speed
}

func (s *Solver) faceState(fn [3]float64, u []float64) (fs faceState) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
	)
	fs.al = make([]float64, nmat)
	fs.apm = make([]float64, nmat)
	fs.am = make([]float64, nmat)

	for k := 0; k < nmat; k++ {
		fs.rho += u[DensityIdx(nmat, k)]
	}
	fs.u = u[ncomp+VelocityIdx(nmat, 0)]
	fs.v = u[ncomp+VelocityIdx(nmat, 1)]
	fs.w = u[ncomp+VelocityIdx(nmat, 2)]
	fs.vn = fs.u*fn[0] + fs.v*fn[1] + fs.w*fn[2]

	var ac2 float64
	for k := 0; k < nmat; k++ {
		fs.al[k] = u[VolfracIdx(nmat, k)]
		fs.apm[k] = u[ncomp+PressureIdx(nmat, k)]
		fs.pb += fs.apm[k]
		fs.am[k] = s.Mat[k].SoundSpeed(u[DensityIdx(nmat, k)], fs.apm[k],
			fs.al[k], k)
		ac2 += u[DensityIdx(nmat, k)] * fs.am[k] * fs.am[k]
	}
	fs.ac = math.Sqrt(ac2 / fs.rho)
	return
}

// physFlux fills fl with the normal conservative flux of state u, using the
// face-state quantities already computed for it
func (s *Solver) physFlux(fn [3]float64, u []float64, fs faceState, fl []float64) {
	var (
		nmat = s.Nmat
	)
	for k := 0; k < nmat; k++ {
		fl[VolfracIdx(nmat, k)] = fs.vn * fs.al[k]
		fl[DensityIdx(nmat, k)] = fs.vn * u[DensityIdx(nmat, k)]
		fl[EnergyIdx(nmat, k)] = fs.vn * (u[EnergyIdx(nmat, k)] + fs.apm[k])

		if s.Mat[k].SolidIndex > 0 {
			sx := s.Mat[k].SolidIndex
			for i := 0; i < 3; i++ {
				gdotv := fs.u*u[DeformIdx(nmat, sx, i, 0)] +
					fs.v*u[DeformIdx(nmat, sx, i, 1)] +
					fs.w*u[DeformIdx(nmat, sx, i, 2)]
				for j := 0; j < 3; j++ {
					fl[DeformIdx(nmat, sx, i, j)] = gdotv * fn[j]
				}
			}
		}
	}
	for idir := 0; idir < 3; idir++ {
		fl[MomentumIdx(nmat, idir)] = fs.vn*u[MomentumIdx(nmat, idir)] +
			fs.pb*fn[idir]
	}
}

// splitMachAUSM returns the degree-4 split Mach functions and degree-5 split
// pressure functions of AUSM+
func splitMachAUSM(fa, mach float64) (ms [4]float64) {
	if math.Abs(mach) < 1.0 {
		m2p := 0.25 * (mach + 1.0) * (mach + 1.0)
		m2m := -0.25 * (mach - 1.0) * (mach - 1.0)
		alphFa := (3.0 / 16.0) * (-4.0 + 5.0*fa*fa)
		const beta = 1.0 / 8.0
		ms[0] = m2p * (1.0 - 16.0*beta*m2m)
		ms[1] = m2m * (1.0 + 16.0*beta*m2p)
		ms[2] = m2p * ((2.0 - mach) - 16.0*alphFa*mach*m2m)
		ms[3] = m2m * ((-2.0 - mach) + 16.0*alphFa*mach*m2p)
	} else {
		ms[0] = 0.5 * (mach + math.Abs(mach))
		ms[1] = 0.5 * (mach - math.Abs(mach))
		ms[2] = ms[0] / mach
		ms[3] = ms[1] / mach
	}
	return
}

// AUSMFlux is the AUSM+up flux with velocity and pressure diffusion terms
// for low-Mach robustness
func AUSMFlux(s *Solver, fn [3]float64, uL, uR []float64) (flx []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		l     = s.faceState(fn, uL)
		r     = s.faceState(fn, uR)
	)
	flx = make([]float64, ncomp+nmat+1)

	ac12 := 0.5 * (l.ac + r.ac)
	ml, mr := l.vn/ac12, r.vn/ac12

	const (
		kU = 0.5
		kP = 0.5
		fa = 1.0
	)
	msl := splitMachAUSM(fa, ml)
	msr := splitMachAUSM(fa, mr)

	// Riemann Mach number with pressure diffusion
	m0 := 1.0 - 0.5*(l.vn*l.vn+r.vn*r.vn)/(ac12*ac12)
	mp := -kP * math.Max(m0, 0.0) * (r.pb - l.pb) /
		(fa * 0.5 * (l.rho + r.rho) * ac12 * ac12)
	m12 := msl[0] + msr[1] + mp
	vriem := ac12 * m12

	// Riemann pressure with velocity diffusion
	pu := -kU * msl[2] * msr[3] * fa * (l.rho + r.rho) * ac12 * (r.vn - l.vn)
	p12 := msl[2]*l.pb + msr[3]*r.pb + pu

	// Flux vector splitting
	lPlus := 0.5 * (vriem + math.Abs(vriem))
	lMinus := 0.5 * (vriem - math.Abs(vriem))

	for k := 0; k < nmat; k++ {
		flx[VolfracIdx(nmat, k)] = lPlus*l.al[k] + lMinus*r.al[k]
		flx[DensityIdx(nmat, k)] = lPlus*uL[DensityIdx(nmat, k)] +
			lMinus*uR[DensityIdx(nmat, k)]
		flx[EnergyIdx(nmat, k)] = lPlus*(uL[EnergyIdx(nmat, k)]+l.apm[k]) +
			lMinus*(uR[EnergyIdx(nmat, k)]+r.apm[k])

		if s.Mat[k].SolidIndex > 0 {
			sx := s.Mat[k].SolidIndex
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					flx[DeformIdx(nmat, sx, i, j)] =
						lPlus*uL[DeformIdx(nmat, sx, i, j)] +
							lMinus*uR[DeformIdx(nmat, sx, i, j)]
				}
			}
		}
	}
	for idir := 0; idir < 3; idir++ {
		flx[MomentumIdx(nmat, idir)] = lPlus*uL[MomentumIdx(nmat, idir)] +
			lMinus*uR[MomentumIdx(nmat, idir)] + p12*fn[idir]
	}

	// Riemann-advected partial pressures and Riemann velocity
	for k := 0; k < nmat; k++ {
		flx[ncomp+k] = msl[2]*l.apm[k] + msr[3]*r.apm[k]
	}
	flx[ncomp+nmat] = vriem
	return
}

// LaxFriedrichsFlux is the global Lax-Friedrichs flux with the mixture sound
// speed in the dissipation eigenvalue
func LaxFriedrichsFlux(s *Solver, fn [3]float64, uL, uR []float64) (flx []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		l     = s.faceState(fn, uL)
		r     = s.faceState(fn, uR)
	)
	flx = make([]float64, ncomp+nmat+1)
	fluxl := make([]float64, ncomp)
	fluxr := make([]float64, ncomp)

	s.physFlux(fn, uL, l, fluxl)
	s.physFlux(fn, uR, r, fluxr)

	lambda := math.Max(math.Abs(l.vn), math.Abs(r.vn)) + math.Max(l.ac, r.ac)
	vriem := 0.5 * (l.vn + r.vn)

	for c := 0; c < ncomp; c++ {
		flx[c] = 0.5 * (fluxl[c] + fluxr[c] - lambda*(uR[c]-uL[c]))
	}
	for k := 0; k < nmat; k++ {
		flx[ncomp+k] = 0.5 * (l.apm[k] + r.apm[k])
	}
	flx[ncomp+nmat] = vriem
	return
}

// RusanovFlux is the local Lax-Friedrichs flux with the maximum material
// sound speed of either side as the dissipation eigenvalue
func RusanovFlux(s *Solver, fn [3]float64, uL, uR []float64) (flx []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		l     = s.faceState(fn, uL)
		r     = s.faceState(fn, uR)
	)
	flx = make([]float64, ncomp+nmat+1)
	fluxl := make([]float64, ncomp)
	fluxr := make([]float64, ncomp)

	s.physFlux(fn, uL, l, fluxl)
	s.physFlux(fn, uR, r, fluxr)

	var amax float64
	for k := 0; k < nmat; k++ {
		amax = math.Max(amax, math.Max(l.am[k], r.am[k]))
	}
	lambda := math.Max(math.Abs(l.vn), math.Abs(r.vn)) + amax
	vriem := 0.5 * (l.vn + r.vn)

	for c := 0; c < ncomp; c++ {
		flx[c] = 0.5 * (fluxl[c] + fluxr[c] - lambda*(uR[c]-uL[c]))
	}
	for k := 0; k < nmat; k++ {
		flx[ncomp+k] = 0.5 * (l.apm[k] + r.apm[k])
	}
	flx[ncomp+nmat] = vriem
	return
}

// HLLFlux is the two-wave HLL flux
func HLLFlux(s *Solver, fn [3]float64, uL, uR []float64) (flx []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		l     = s.faceState(fn, uL)
		r     = s.faceState(fn, uR)
	)
	flx = make([]float64, ncomp+nmat+1)
	fluxl := make([]float64, ncomp)
	fluxr := make([]float64, ncomp)

	s.physFlux(fn, uL, l, fluxl)
	s.physFlux(fn, uR, r, fluxr)

	sl := math.Min(l.vn-l.ac, r.vn-r.ac)
	sr := math.Max(l.vn+l.ac, r.vn+r.ac)

	switch {
	case sl >= 0.0:
		copy(flx[:ncomp], fluxl)
	case sr <= 0.0:
		copy(flx[:ncomp], fluxr)
	default:
		oodenom := 1.0 / (sr - sl)
		for c := 0; c < ncomp; c++ {
			flx[c] = (sr*fluxl[c] - sl*fluxr[c] +
				sl*sr*(uR[c]-uL[c])) * oodenom
		}
	}

	wl := sr / (sr - sl)
	vriem := wl*l.vn + (1.0-wl)*r.vn
	for k := 0; k < nmat; k++ {
		flx[ncomp+k] = wl*l.apm[k] + (1.0-wl)*r.apm[k]
	}
	flx[ncomp+nmat] = vriem
	return
}

// HLLCFlux restores the contact wave on top of HLL. The contact speed comes
// from the bulk states; star states scale the partial quantities by the
// density ratio of the adjacent wave fan.
func HLLCFlux(s *Solver, fn [3]float64, uL, uR []float64) (flx []float64) {
	var (
		nmat  = s.Nmat
		ncomp = s.Ncomp
		l     = s.faceState(fn, uL)
		r     = s.faceState(fn, uR)
	)
	flx = make([]float64, ncomp+nmat+1)

	sl := math.Min(l.vn-l.ac, r.vn-r.ac)
	sr := math.Max(l.vn+l.ac, r.vn+r.ac)

	// contact speed from bulk momentum balance
	sm := (r.pb - l.pb + l.rho*l.vn*(sl-l.vn) - r.rho*r.vn*(sr-r.vn)) /
		(l.rho*(sl-l.vn) - r.rho*(sr-r.vn))

	// pressure in the star region
	pStar := l.pb + l.rho*(sl-l.vn)*(sm-l.vn)

	starFlux := func(u []float64, fs faceState, sK float64, fl []float64) {
		// star state scaling factor for the partial quantities
		fac := (sK - fs.vn) / (sK - sm)
		phys := make([]float64, ncomp)
		s.physFlux(fn, u, fs, phys)

		ustar := make([]float64, ncomp)
		for k := 0; k < nmat; k++ {
			ustar[VolfracIdx(nmat, k)] = fac * fs.al[k]
			ustar[DensityIdx(nmat, k)] = fac * u[DensityIdx(nmat, k)]
			// material energy with the contact-pressure work term weighted
			// by the material pressure fraction
			ustar[EnergyIdx(nmat, k)] = fac * (u[EnergyIdx(nmat, k)] +
				(sm-fs.vn)*(u[DensityIdx(nmat, k)]*sm+
					fs.apm[k]/(sK-fs.vn)))
			if s.Mat[k].SolidIndex > 0 {
				sx := s.Mat[k].SolidIndex
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						ustar[DeformIdx(nmat, sx, i, j)] =
							u[DeformIdx(nmat, sx, i, j)]
					}
				}
			}
		}
		// momentum: normal component jumps to sm, tangential is advected
		for idir := 0; idir < 3; idir++ {
			ustar[MomentumIdx(nmat, idir)] = fac *
				(u[MomentumIdx(nmat, idir)] +
					fs.rho*(sm-fs.vn)*fn[idir])
		}
		for c := 0; c < ncomp; c++ {
			fl[c] = phys[c] + sK*(ustar[c]-u[c])
		}
	}

	switch {
	case sl >= 0.0:
		s.physFlux(fn, uL, l, flx[:ncomp])
	case sm >= 0.0:
		starFlux(uL, l, sl, flx[:ncomp])
	case sr > 0.0:
		starFlux(uR, r, sr, flx[:ncomp])
	default:
		s.physFlux(fn, uR, r, flx[:ncomp])
	}

	// upwind the partial pressures by the contact speed
	for k := 0; k < nmat; k++ {
		if sm >= 0.0 {
			flx[ncomp+k] = l.apm[k] + l.al[k]*(pStar-l.pb)
		} else {
			flx[ncomp+k] = r.apm[k] + r.al[k]*(pStar-r.pb)
		}
	}
	flx[ncomp+nmat] = sm
	return
}

// fluxFunction resolves a FluxType to its implementation
func fluxFunction(ft FluxType) RiemannFlux {
	switch ft {
	case FLUX_AUSM:
		return AUSMFlux
	case FLUX_HLLC:
		return HLLCFlux
	case FLUX_HLL:
		return HLLFlux
	case FLUX_Rusanov:
		return RusanovFlux
	case FLUX_LaxFriedrichs:
		return LaxFriedrichsFlux
	}
	panic(fmt.Errorf("flux type %d not configured", ft))
}
