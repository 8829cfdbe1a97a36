package main

import "dnse-connect/cli"

func main() {
	cli.Execute()
}
