//go:build !cgo || nolibmpv

package player

// StartLibMPV always fails in builds without libmpv.
func StartLibMPV(string) (Process, error) {
	return nil, ErrLibMPVUnavailable
}
