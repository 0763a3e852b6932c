package main

import "github.com/memlab/allocbench/cmd/allocbench/cmd"

func main() {
	cmd.Execute()
}
