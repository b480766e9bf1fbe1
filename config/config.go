// config/config.go
package config

import (
	"log"
	"os"
	"time"
)

var (
	Port          string
	MongoURI      string
	MongoDB       string
	JWTKey        []byte
	JWTExpiration time.Duration
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	MongoDB = os.Getenv("MONGO_DB")
	if MongoDB == "" {
		MongoDB = "invtrack"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		log.Println("WARNING: JWT_SECRET not set, using insecure default")
		JWTKey = []byte("secret")
	}

	JWTExpiration = 24 * time.Hour
	if expireStr := os.Getenv("JWT_EXPIRE"); expireStr != "" {
		dur, err := time.ParseDuration(expireStr)
		if err != nil {
			log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
		} else {
			JWTExpiration = dur
		}
	}
}
