package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL          string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	CredentialsFile     string        `env:"CREDENTIALS_FILE" envDefault:".mapsocial-credentials.json"`
	HTTPTimeout         time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	KindFilter          string        `env:"KIND_FILTER"`
	UploadBackend       string        `env:"UPLOAD_BACKEND" envDefault:"api"` // api or cloudinary
	CloudinaryCloudName string        `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string        `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string        `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string        `env:"CLOUDINARY_FOLDER" envDefault:"mapsocial"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
