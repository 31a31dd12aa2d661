package main

import (
	"github.com/fixflow-sec/fixflow/cmd"
)

func main() {
	cmd.Execute()
}
