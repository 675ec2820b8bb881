package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDeck = `
Title: "tiny sod"
Scheme: P0P1
Limiter: vertexbasedp1
FluxType: HLLC
CFL: 0.5
FinalTime: 0.001
MaxIterations: 3
Materials:
  - EOS: stiffenedgas
    Gamma: 1.4
    Cv: 717.5
BCs:
  extrapolate: [1, 2]
  symmetry: [3, 4, 5, 6]
Mesh: {X0: 0, X1: 1, Y0: 0, Y1: 0.1, Z0: 0, Z1: 0.1, NX: 8, NY: 1, NZ: 1}
IC: {Type: sod}
History:
  center: [0.5, 0.05, 0.05]
`

func TestProcessInputAndSolve(t *testing.T) {
	dir, err := ioutil.TempDir("", "multimat")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	deck := filepath.Join(dir, "sod.yaml")
	require.NoError(t, ioutil.WriteFile(deck, []byte(testDeck), 0644))

	ip := processInput(deck)
	assert.Equal(t, "P0P1", ip.Scheme)
	assert.Equal(t, 8, ip.Mesh.NX)

	// a short end-to-end run through the command path
	RunSolve(ip)
}
