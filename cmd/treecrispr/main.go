package main

import "treecrispr/internal/app"

func main() {
	app.Execute()
}
