package constants_test

import (
	"fmt"

	"github.com/agentstation/govmatch/pkg/constants"
)

// Example shows how the score constants partition a snapshot match.
func Example() {
	for _, score := range []float64{92, 64, 40} {
		switch {
		case score >= constants.SnapshotHighConfidence:
			fmt.Printf("%.0f confirmed\n", score)
		case score >= constants.SnapshotTitleFloor:
			fmt.Printf("%.0f low confidence\n", score)
		default:
			fmt.Printf("%.0f unmatched\n", score)
		}
	}
	// Output:
	// 92 confirmed
	// 64 low confidence
	// 40 unmatched
}

// Example_permissions prints the standard permissions used for outputs.
func Example_permissions() {
	fmt.Printf("dir %o, file %o\n", constants.DirPermissions, constants.FilePermissions)
	// Output: dir 755, file 644
}
