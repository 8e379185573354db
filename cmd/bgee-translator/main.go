package main

import "bgee-translator/internal/cli"

func main() {
	cli.Execute()
}
