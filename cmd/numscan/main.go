// Command numscan finds numbers in English text and converts number words
// to values.
//
// Usage:
//
//	numscan parse "I have twenty five apples and 2.5k users"
//	echo "the 21st of two dozen" | numscan parse --format table
//	numscan convert two million, three hundred thousand
//	numscan spell 1984
//	numscan scan --workers 8 --metrics-out numscan.prom ./corpus
//
// Settings come from --config (YAML), NUMSCAN_* environment variables and
// flags, in increasing order of precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "numscan: %v\n", err)
		os.Exit(1)
	}
}
