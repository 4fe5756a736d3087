package main

import "github.com/tranvictor/ethwallet/cmd"

func main() {
	cmd.Execute()
}
