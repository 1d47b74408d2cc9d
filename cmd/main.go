package main

import (
	cmd "github.com/kerbaras/anistream/cmd/anistream"
)

func main() {
	cmd.Execute()
}
