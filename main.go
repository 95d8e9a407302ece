package main

import "revq/internal/cli"

func main() {
	cli.Execute()
}
