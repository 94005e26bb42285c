package main

import "github.com/apresai/studynotes/internal/cli"

func main() {
	cli.Execute()
}
