package main

import "procurement-marketplace-api/app"

func main() {
	app.Run()
}
