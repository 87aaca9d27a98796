package main

import "github.com/pfrederiksen/kremlin-meetings/internal/cli"

func main() {
	cli.Execute()
}
