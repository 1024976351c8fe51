package main

import (
	"github.com/MePrince47/JoeZik/cmd"
)

func main() {
	cmd.Execute()
}
