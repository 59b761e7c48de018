package main

import "github.com/vvatanabe/sqsstatus/internal/cmd"

func main() {
	cmd.Execute()
}
