package main

import "github.com/AKteen/Clear-Bill/internal/cli"

func main() {
	cli.Execute()
}
