package main

import "github.com/narainsingaram/clash-royale-ai/internal/cli"

func main() {
	cli.Execute()
}
