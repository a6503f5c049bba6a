package main

import (
	"log"

	"stockscreener/cmd"

	_ "github.com/lib/pq"
)

func main() {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	err = deps.ApiHandler.StartApi(3009)
	if err != nil {
		log.Fatal(err)
	}
}
