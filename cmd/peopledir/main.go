package main

import (
	"os"

	"github.com/castlegate/peopledir/cmd/peopledir/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
