package main

import "domain-finder/cli"

func main() {
	cli.Execute()
}
