package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// MaterialParameters holds the per-material EOS configuration. EOS selects
// the closure: "stiffenedgas", "jwl" or "smallshearsolid". SolidIndex is 0
// for fluids and >= 1 for solid materials carrying a deformation gradient.
type MaterialParameters struct {
	EOS        string  `yaml:"EOS"`
	Gamma      float64 `yaml:"Gamma"`
	PStiff     float64 `yaml:"PStiff"`
	Cv         float64 `yaml:"Cv"`
	Mu         float64 `yaml:"Mu"`
	A          float64 `yaml:"A"`
	B          float64 `yaml:"B"`
	R1         float64 `yaml:"R1"`
	R2         float64 `yaml:"R2"`
	Rho0       float64 `yaml:"Rho0"`
	Omega      float64 `yaml:"Omega"`
	E0         float64 `yaml:"E0"`
	RhoRef     float64 `yaml:"RhoRef"`
	TRef       float64 `yaml:"TRef"`
	SolidIndex int     `yaml:"SolidIndex"`
}

// BoxMeshParameters describes the structured test mesh generated when no
// external mesh is supplied
type BoxMeshParameters struct {
	X0, X1, Y0, Y1, Z0, Z1 float64
	NX, NY, NZ             int
}

// ICParameters selects a canned initial condition
type ICParameters struct {
	Type   string              `yaml:"Type"` // uniform, planar, sod
	X0     float64             `yaml:"X0"`
	Left   map[string]float64  `yaml:"Left"`
	Right  map[string]float64  `yaml:"Right"`
}

// Parameters obtained from the YAML input file
type InputParametersMM struct {
	Mesh BoxMeshParameters `yaml:"Mesh"`
	IC   ICParameters      `yaml:"IC"`
	Title           string                         `yaml:"Title"`
	Scheme          string                         `yaml:"Scheme"`  // DG, DGP1, DGP2, P0P1, FV
	Limiter         string                         `yaml:"Limiter"` // nolimiter, WENOP1, superbeep1, vertexbasedp1
	FluxType        string                         `yaml:"FluxType"`
	CFL             float64                        `yaml:"CFL"`
	FinalTime       float64                        `yaml:"FinalTime"`
	MaxIterations   int                            `yaml:"MaxIterations"`
	IntSharp        int                            `yaml:"IntSharp"`
	IntSharpParam   float64                        `yaml:"IntSharpParam"`
	ShockDetection  bool                           `yaml:"ShockDetection"`
	Prelax          int                            `yaml:"Prelax"`
	PrelaxTimescale float64                        `yaml:"PrelaxTimescale"`
	AccuracyTest    bool                           `yaml:"AccuracyTest"`
	PAdaptive       bool                           `yaml:"PAdaptive"`
	TolRef          float64                        `yaml:"TolRef"`
	TolDeref        float64                        `yaml:"TolDeref"`
	NDOFMax         int                            `yaml:"NDOFMax"`
	Materials       []MaterialParameters           `yaml:"Materials"`
	BCs             map[string][]int               `yaml:"BCs"` // BC kind -> side set ids
	Farfield        map[string]float64             `yaml:"Farfield"`
	Sponge          map[string]float64             `yaml:"Sponge"`
	Stagnation      map[string]float64             `yaml:"Stagnation"`
	TimeDepTables   map[int][][]float64            `yaml:"TimeDepTables"` // side set -> rows of (t, 5 values)
	History         map[string][3]float64          `yaml:"History"` // probe name -> coordinates
}

var (
	ValidSchemes  = []string{"DG", "DGP1", "DGP2", "P0P1", "FV"}
	ValidLimiters = []string{"nolimiter", "WENOP1", "superbeep1", "vertexbasedp1"}
	ValidFluxes   = []string{"AUSM", "HLLC", "HLL", "Rusanov", "LaxFriedrichs"}
	ValidBCs      = []string{"dirichlet", "symmetry", "farfield", "extrapolate",
		"stagnation", "sponge", "timedep"}
	ValidEOS = []string{"stiffenedgas", "jwl", "smallshearsolid"}
)

func (ip *InputParametersMM) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Validate checks the deck for configuration errors, naming the offending
// keyword in each message
func (ip *InputParametersMM) Validate() error {
	if !contains(ValidSchemes, ip.Scheme) {
		return fmt.Errorf("Scheme: %q is not configured, must be one of %v",
			ip.Scheme, ValidSchemes)
	}
	if !contains(ValidLimiters, ip.Limiter) {
		return fmt.Errorf("Limiter: %q is not configured, must be one of %v",
			ip.Limiter, ValidLimiters)
	}
	if !contains(ValidFluxes, ip.FluxType) {
		return fmt.Errorf("FluxType: %q is not configured, must be one of %v",
			ip.FluxType, ValidFluxes)
	}
	if len(ip.Materials) == 0 {
		return fmt.Errorf("Materials: at least one material must be configured")
	}
	for k, mp := range ip.Materials {
		if !contains(ValidEOS, mp.EOS) {
			return fmt.Errorf("Materials[%d].EOS: %q unknown, must be one of %v",
				k+1, mp.EOS, ValidEOS)
		}
		if mp.EOS == "jwl" {
			if mp.A == 0 || mp.B == 0 || mp.R1 == 0 || mp.R2 == 0 ||
				mp.Rho0 == 0 || mp.Omega == 0 {
				return fmt.Errorf("Materials[%d]: jwl requires A, B, R1, R2, "+
					"Rho0 and Omega", k+1)
			}
			if mp.RhoRef == 0 || mp.TRef == 0 {
				return fmt.Errorf("Materials[%d]: jwl requires the reference "+
					"state RhoRef, TRef", k+1)
			}
		}
		if mp.EOS == "smallshearsolid" && mp.SolidIndex == 0 {
			return fmt.Errorf("Materials[%d]: smallshearsolid requires "+
				"SolidIndex >= 1", k+1)
		}
	}
	for kind := range ip.BCs {
		if !contains(ValidBCs, kind) {
			return fmt.Errorf("BCs: unknown boundary condition kind %q, must "+
				"be one of %v", kind, ValidBCs)
		}
	}
	if ip.CFL <= 0 {
		return fmt.Errorf("CFL: must be positive, have %v", ip.CFL)
	}
	if ip.PAdaptive {
		if ip.NDOFMax != 4 && ip.NDOFMax != 10 {
			return fmt.Errorf("NDOFMax: must be 4 or 10 for p-adaptive runs, "+
				"have %d", ip.NDOFMax)
		}
		if ip.TolRef <= 0 {
			return fmt.Errorf("TolRef: must be positive for p-adaptive runs")
		}
	}
	return nil
}

// NDofs returns (ndof, rdof) for the configured scheme
func (ip *InputParametersMM) NDofs() (ndof, rdof int) {
	switch ip.Scheme {
	case "DG", "FV":
		return 1, 1
	case "P0P1":
		return 1, 4
	case "DGP1":
		return 4, 4
	case "DGP2":
		return 10, 10
	}
	panic(fmt.Errorf("Scheme: %q is not configured", ip.Scheme))
}

func (ip *InputParametersMM) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= Scheme\n", ip.Scheme)
	fmt.Printf("[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Printf("[%s]\t= Limiter\n", ip.Limiter)
	fmt.Printf("[%d]\t\t\t\t= Materials\n", len(ip.Materials))
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
