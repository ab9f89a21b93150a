package main

import (
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/cli"
)

func main() {
	cli.Execute()
}
