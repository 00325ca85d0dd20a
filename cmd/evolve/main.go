package main

import "github.com/KemboiK/evolve-bot/cmd/evolve/root"

func main() {
	root.Execute()
}
