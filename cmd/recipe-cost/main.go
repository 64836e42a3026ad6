package main

import "recipe-cost/internal/cli"

func main() {
	cli.Execute()
}
