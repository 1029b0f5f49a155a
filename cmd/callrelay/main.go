package main

import "github.com/ppiankov/callrelay/internal/cli"

func main() {
	cli.Execute()
}
