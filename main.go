package main

import "github.com/jasonhulbert/specgen/cmd"

func main() {
	cmd.Execute()
}
