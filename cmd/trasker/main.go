package main

import (
	"fmt"
	"os"

	"github.com/hsmith-dev/Trasker-WebApp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
