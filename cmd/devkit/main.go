package main

import "github.com/Lessica/lessica.github.io/internal/cli"

func main() {
	cli.Execute()
}
