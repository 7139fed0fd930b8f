package main

import "github.com/naka-gawa/ghanalyzer/cmd"

func main() {
	cmd.Execute()
}
