package main

import (
	"github.com/simrigproject/simrig/cmd/simrig/cmd"
	"github.com/simrigproject/simrig/internal/common"
)

func main() {
	common.ConfigureLogging()
	cmd.Execute()
}
