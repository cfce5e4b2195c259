package main

import "github.com/MeKo-Tech/pbrforge/internal/cmd"

func main() {
	cmd.Execute()
}
