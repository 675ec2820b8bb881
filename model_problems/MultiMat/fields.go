package MultiMat

import "github.com/notargets/multimat/utils"

// Fields stores per-element modal coefficient data: one row per element,
// ncomp*rdof columns
type Fields = utils.Matrix

// NewFields allocates a zeroed Fields array
func NewFields(nelem, nprop int) Fields {
	return utils.NewMatrix(nelem, nprop)
}
