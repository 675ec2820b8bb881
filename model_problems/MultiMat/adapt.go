package MultiMat

/*
	Spectral-decay p-adaptivity: the ratio of the energy held in the
	top-mode shell of each element's modal expansion to the total is compared
	against the refinement tolerances to raise or lower the local number of
	DOFs within [1, ndofmax].
*/

// EvalNdof evaluates the spectral-decay indicator and updates the local
// DOF counts. Raising an element zeroes the freshly activated coefficients,
// lowering zeroes the abandoned ones.
func (s *Solver) EvalNdof() {
	if !s.IP.PAdaptive {
		return
	}
	var (
		nelem   = s.Msh.Nelem
		ndofmax = s.IP.NDOFMax
	)
	for e := 0; e < nelem; e++ {
		ind := s.spectralDecay(e)

		switch {
		case ind > s.IP.TolRef && s.Ndofel[e] < ndofmax:
			old := s.Ndofel[e]
			if s.Ndofel[e] == 1 {
				s.Ndofel[e] = 4
			} else {
				s.Ndofel[e] = 10
			}
			for c := 0; c < s.Ncomp; c++ {
				for idof := old; idof < s.Ndofel[e] && idof < s.Rdof; idof++ {
					s.U.Set(e, c*s.Rdof+idof, 0.0)
				}
			}
		case ind < s.IP.TolDeref && s.Ndofel[e] > 1:
			if s.Ndofel[e] == 10 {
				s.Ndofel[e] = 4
			} else {
				s.Ndofel[e] = 1
			}
		}
	}
	s.ResetAdapSol()
}

// spectralDecay computes, per component, the fraction of modal energy in
// the highest-order shell currently carried by the element, averaged over
// the conserved components
func (s *Solver) spectralDecay(e int) (ind float64) {
	var (
		ncomp = s.Ncomp
		rdof  = s.Rdof
		ndof  = s.Ndofel[e]
	)
	if ndof == 1 {
		// a P0 element is probed with its reconstructed P1 shell
		ndof = 4
	}
	shellLo, shellHi := 1, 4
	if ndof > 4 {
		shellLo, shellHi = 4, 10
	}

	var ncontrib int
	for c := 0; c < ncomp; c++ {
		mark := c * rdof
		var top, tot float64
		for idof := 0; idof < shellHi && idof < rdof; idof++ {
			v := s.U.At(e, mark+idof)
			tot += v * v
			if idof >= shellLo {
				top += v * v
			}
		}
		if tot > 1.0e-30 {
			ind += top / tot
			ncontrib++
		}
	}
	if ncontrib > 0 {
		ind /= float64(ncontrib)
	}
	return
}

// ResetAdapSol zeroes the solution coefficients above each element's local
// DOF count. The first-order volume-fraction coefficients are recomputed by
// reconstruction every stage, so zeroing them here is harmless.
func (s *Solver) ResetAdapSol() {
	var (
		nelem = s.Msh.Nelem
		ncomp = s.Ncomp
		nprim = s.Nprim
		rdof  = s.Rdof
	)
	for e := 0; e < nelem; e++ {
		if s.Ndofel[e] >= rdof {
			continue
		}
		for c := 0; c < ncomp; c++ {
			mark := c * rdof
			for idof := s.Ndofel[e]; idof < rdof; idof++ {
				s.U.Set(e, mark+idof, 0.0)
			}
		}
		for c := 0; c < nprim; c++ {
			mark := c * rdof
			for idof := s.Ndofel[e]; idof < rdof; idof++ {
				s.P.Set(e, mark+idof, 0.0)
			}
		}
	}
}
