// SPDX-License-Identifier: MIT

// Command spreg fits spatial regression models from CSV data.
//
//	spreg kkp   --data nat.csv --weights nat.gal --y HR70,HR80,HR90 --x RD70,RD80,RD90 --constant
//	spreg mllag --data baltim.csv --lattice 10x20 --y PRICE --x NROOM,AGE --method ord --plot rho.png
//
// Flags may also come from spreg.toml in the working directory (or --config)
// and from SPREG_* environment variables; flags win over both.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
