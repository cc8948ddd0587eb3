package main

import "github.com/naka-gawa/github-ci-stats/cmd"

func main() {
	cmd.Execute()
}
