package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/multimat/DG3D/mesh"
	"github.com/notargets/multimat/InputParameters"
	"github.com/notargets/multimat/model_problems/MultiMat"
)

// solveCmd runs the multi-material solver from a YAML input deck
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the multi-material DG solver from a YAML input deck",
	Long:  `Run the multi-material DG solver from a YAML input deck`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		icFile, err := cmd.Flags().GetString("inputConditionsFile")
		if err != nil {
			panic(err)
		}
		doProfile, _ := cmd.Flags().GetBool("profile")
		ip := processInput(icFile)
		if doProfile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		RunSolve(ip)
	},
}

func processInput(icFile string) (ip *InputParameters.InputParametersMM) {
	var (
		err error
	)
	if len(icFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, " +
			"--inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Sod shock tube"
Scheme: P0P1
Limiter: vertexbasedp1
FluxType: HLLC
CFL: 0.5
FinalTime: 0.2
Materials:
  - EOS: stiffenedgas
    Gamma: 1.4
    Cv: 717.5
BCs:
  extrapolate: [1, 2]
  symmetry: [3, 4, 5, 6]
Mesh: {X0: 0, X1: 1, Y0: 0, Y1: 0.05, Z0: 0, Z1: 0.05, NX: 100, NY: 1, NZ: 1}
IC: {Type: sod}
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(icFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParametersMM{}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("inputConditionsFile", "I", "",
		"YAML input deck with scheme, limiter, flux, materials, BCs and mesh")
	solveCmd.Flags().BoolP("profile", "p", false,
		"write a CPU profile of the run")
}

func RunSolve(ip *InputParameters.InputParametersMM) {
	mp := ip.Mesh
	if mp.NX == 0 || mp.NY == 0 || mp.NZ == 0 {
		fmt.Printf("error: Mesh: NX, NY, NZ must all be positive\n")
		os.Exit(1)
	}
	m, err := mesh.NewBox(mp.X0, mp.X1, mp.Y0, mp.Y1, mp.Z0, mp.Z1,
		mp.NX, mp.NY, mp.NZ)
	if err != nil {
		panic(err)
	}

	mat, err := MultiMat.NewMaterials(ip.Materials)
	if err != nil {
		panic(err)
	}

	ic, err := buildIC(ip, mat)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	s, err := MultiMat.NewSolver(ip, m, ic)
	if err != nil {
		panic(err)
	}
	ip.Print()
	s.Solve()

	// history probes
	for name, pt := range ip.History {
		if e, ok := s.FindElement(pt); ok {
			out := s.HistOutput(e, pt)
			fmt.Printf("probe %s at (%v, %v, %v): rho=%v u=%v v=%v w=%v "+
				"rhoE=%v p=%v\n", name, pt[0], pt[1], pt[2],
				out[0], out[1], out[2], out[3], out[4], out[5])
		}
	}
}

// buildIC constructs the canned initial condition selected in the deck
func buildIC(ip *InputParameters.InputParametersMM,
	mat []MultiMat.Material) (MultiMat.ICFn, error) {
	var nsld int
	for _, mt := range mat {
		if mt.SolidIndex > 0 {
			nsld++
		}
	}
	nmat := len(mat)

	side := func(m map[string]float64) (alpha, rho []float64, vel [3]float64,
		p float64) {
		alpha = make([]float64, nmat)
		rho = make([]float64, nmat)
		for k := 0; k < nmat; k++ {
			alpha[k] = m[fmt.Sprintf("alpha%d", k+1)]
			rho[k] = m[fmt.Sprintf("rho%d", k+1)]
		}
		vel = [3]float64{m["u"], m["v"], m["w"]}
		p = m["p"]
		return
	}

	switch ip.IC.Type {
	case "sod":
		return MultiMat.SodIC(mat), nil
	case "uniform":
		alpha, rho, vel, p := side(ip.IC.Left)
		return MultiMat.UniformIC(mat, nsld, alpha, rho, vel, p), nil
	case "planar":
		alphaL, rhoL, velL, pL := side(ip.IC.Left)
		alphaR, rhoR, velR, pR := side(ip.IC.Right)
		return MultiMat.PlanarIC(mat, nsld, ip.IC.X0,
			alphaL, rhoL, velL, pL, alphaR, rhoR, velR, pR), nil
	}
	return nil, fmt.Errorf("IC.Type: %q unknown, must be sod, uniform or "+
		"planar", ip.IC.Type)
}
