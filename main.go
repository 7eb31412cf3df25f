package main

import (
	"os"

	"github.com/conneroisu/zgl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
