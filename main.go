package main

import (
	"log"

	"github.com/sjzar/gamefreeze/cmd/gamefreeze"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	gamefreeze.Execute()
}
