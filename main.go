package main

import "github.com/they4kman/ffsweep/cmd"

func main() {
	cmd.Execute()
}
