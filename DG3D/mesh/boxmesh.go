package mesh

/*
	Structured box-mesh generator used by the tests and the canned problem
	setups. Each hexahedral cell is split into six positively oriented
	tetrahedra sharing the main diagonal. Boundary faces are tagged with
	side-set ids 1..6 for -x,+x,-y,+y,-z,+z.
*/

// Box side-set ids
const (
	SideXMin = 1
	SideXMax = 2
	SideYMin = 3
	SideYMax = 4
	SideZMin = 5
	SideZMax = 6
)

// Six-tet Kuhn subdivision of the unit cube, corners indexed by coordinate
// bits (bit0 = x, bit1 = y, bit2 = z)
var kuhnTets = [6][4]int{
	{0, 1, 3, 7},
	{0, 3, 2, 7},
	{0, 2, 6, 7},
	{0, 6, 4, 7},
	{0, 4, 5, 7},
	{0, 5, 1, 7},
}

// NewBox generates a tetrahedral mesh of the box [x0,x1]x[y0,y1]x[z0,z1]
// with nx x ny x nz cells of six tets each
func NewBox(x0, x1, y0, y1, z0, z1 float64, nx, ny, nz int) (m *Mesh, err error) {
	var (
		npx, npy, npz = nx + 1, ny + 1, nz + 1
		npoin         = npx * npy * npz
		coord         [3][]float64
	)
	for i := 0; i < 3; i++ {
		coord[i] = make([]float64, npoin)
	}
	nid := func(i, j, k int) int { return i + npx*(j+npy*k) }
	for k := 0; k < npz; k++ {
		for j := 0; j < npy; j++ {
			for i := 0; i < npx; i++ {
				n := nid(i, j, k)
				coord[0][n] = x0 + (x1-x0)*float64(i)/float64(nx)
				coord[1][n] = y0 + (y1-y0)*float64(j)/float64(ny)
				coord[2][n] = z0 + (z1-z0)*float64(k)/float64(nz)
			}
		}
	}

	inpoel := make([]int, 0, 4*6*nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var corners [8]int
				for b := 0; b < 8; b++ {
					corners[b] = nid(i+b&1, j+(b>>1)&1, k+(b>>2)&1)
				}
				for _, t := range kuhnTets {
					inpoel = append(inpoel, corners[t[0]], corners[t[1]],
						corners[t[2]], corners[t[3]])
				}
			}
		}
	}

	tol := 1e-10 * (x1 - x0 + y1 - y0 + z1 - z0)
	sideset := func(fc, fn [3]float64) int {
		switch {
		case fc[0] < x0+tol:
			return SideXMin
		case fc[0] > x1-tol:
			return SideXMax
		case fc[1] < y0+tol:
			return SideYMin
		case fc[1] > y1-tol:
			return SideYMax
		case fc[2] < z0+tol:
			return SideZMin
		default:
			return SideZMax
		}
	}

	return New(coord, inpoel, sideset)
}
