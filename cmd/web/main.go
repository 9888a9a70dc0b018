package main

import "ambassador_backend/internal/app"

func main() {
	app.Run()
}
