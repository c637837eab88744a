package main

import "github.com/sky-uk/chunks/chunks/cmd"

func main() {
	cmd.Execute()
}
