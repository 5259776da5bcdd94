package main

import "club-activity-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
