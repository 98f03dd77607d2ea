package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load reads the .env file if one exists and fails fast on missing required
// configuration: a server without a signing secret or its stores cannot do
// anything meaningful.
func Load() {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Fatalf("Env file not found")
		}
	} else if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatalf("JWT_SECRET is not set in environment")
	}
	if os.Getenv("MYSQL_DSN") == "" {
		log.Fatalf("MYSQL_DSN is not set in environment")
	}
	if os.Getenv("MONGO_URI") == "" {
		log.Fatalf("MONGO_URI is not set in environment")
	}
	if os.Getenv("MONGO_DB_NAME") == "" {
		log.Fatalf("MONGO_DB_NAME is not set in environment")
	}
}

func ClientOrigin() string {
	if origin := os.Getenv("CLIENT_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:5173"
}

func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}
