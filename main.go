package main

import "github.com/philipparndt/mesh2step/internal/cmd"

func main() {
	cmd.Parse()
}
