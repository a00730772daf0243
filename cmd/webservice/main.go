package main

import (
	"log"

	"github.com/celaops/cela/config"
	"github.com/celaops/cela/internal/app"

	postgresDriver "github.com/celaops/cela/internal/infrastructure/database/postgres"
	kafkaDriver "github.com/celaops/cela/internal/infrastructure/message-queue/kafka"
)

func main() {
	config := config.CreateNewConfig()
	db, err := postgresDriver.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	if err := postgresDriver.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	kafkaConn := kafkaDriver.CreateKafkaProducer(config)

	server := app.App{
		DB:        db,
		KafkaConn: kafkaConn,
		Config:    config,
	}

	server.Start()
}
