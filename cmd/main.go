package main

import (
	"os"

	"preggy/config"
	"preggy/routes"
	"preggy/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	r.Run(":" + port)
}
