package main

import (
	"os"

	"github.com/serkac1000/apk-editor-windows-final-main/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
