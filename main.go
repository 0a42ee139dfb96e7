/*
Copyright © 2026 Paulo Suderio
*/
package main

import (
	"os"

	"github.com/suderio/rpdice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
