package main

import "github.com/theirongolddev/ctxline/cmd"

func main() {
	cmd.Execute()
}
