package main

import "scrub/internal/cli"

func main() {
	cli.Main()
}
