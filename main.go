package main

import (
	"clinic-connect/configuration"
	"clinic-connect/jobs"
	"clinic-connect/routes"
)

func Init() {
	configuration.ConfigDB()
	configuration.InitRedis()
}

func main() {
	Init()
	jobs.StartDailyScheduler()

	r := routes.SetupRoutes()
	if err := r.Run(); err != nil {
		panic(err)
	}
}
