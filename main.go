package main

import (
	"log"

	"kaifacademy/config"
	"kaifacademy/database"
	"kaifacademy/routers"
	"kaifacademy/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	utils.InitErrorReporter(config.AppConfig)
	defer utils.CloseErrorReporter()

	if config.AppConfig.SchedulerEnabled {
		if scheduler := utils.InitializeProgressScheduler(); scheduler != nil {
			defer scheduler.Stop()
		}
	}

	app := routers.New(config.AppConfig)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
