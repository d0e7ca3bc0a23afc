//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The qdcad editor requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/qdcad` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "The qdstruct command works on layout files without a display.")
	os.Exit(2)
}
