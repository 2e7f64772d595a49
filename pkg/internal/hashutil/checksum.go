package hashutil

import (
	"crypto/sha256"
	"fmt"
)

// Checksum returns the SHA256 checksum of data in "sha256:<hex>" form.
// Used for the run manifest.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}

// structuralFragment is how many bytes of the head and tail the
// structural signature samples.
const structuralFragment = 64

// Structural returns a cheap equality signature for data: its length
// plus head and tail fragments. Not cryptographic; only good for
// detecting that content changed between two snapshots.
func Structural(data []byte) string {
	n := len(data)
	frag := structuralFragment
	if n <= 2*frag {
		return fmt.Sprintf("len=%d;all=%x", n, data)
	}
	return fmt.Sprintf("len=%d;head=%x;tail=%x", n, data[:frag], data[n-frag:])
}
