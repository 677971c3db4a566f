package main

import (
	"github.com/NVIDIA/hibernate-agent/pkg/cli"
)

func main() {
	cli.Execute()
}
