package main

import (
	"os"

	"github.com/pulsetrack/pulsetrack/pulseservice"
)

func main() {
	if err := pulseservice.Run(); err != nil {
		os.Exit(1)
	}
}
