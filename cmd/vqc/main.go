// Command vqc trains vector quantization codebooks for 16-bit sample planes
// and codes planes against them.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
