package main

import "photoshare/internal/cli"

func main() {
	cli.Execute()
}
