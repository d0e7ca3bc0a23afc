// Command qdstruct inspects, formats and generates qdStruct layout files
// without starting the editor.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
