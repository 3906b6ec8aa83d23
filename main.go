package main

import "github.com/r2lab/meshtrace/cmd"

func main() {
	cmd.Execute()
}
