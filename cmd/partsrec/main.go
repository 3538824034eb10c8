package main

import "github.com/dustin/partsrec/internal/cli"

func main() {
	cli.Execute()
}
