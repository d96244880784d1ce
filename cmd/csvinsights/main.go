package main

import "csvinsights/internal/cli"

func main() {
	cli.Execute()
}
