package config

import (
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type BlobConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type Config struct {
	DB_URL           string
	Port             string
	Environment      string
	PrivateKeyPath   string
	PublicKeyPath    string
	EncryptionKey    []byte // 32-byte AES-256 key, provisioned as 64-char hex
	ServiceAccountID string
	FrontendURL      string
	FFprobePath      string
	FFmpegPath       string
	CorsConfig       cors.Options
	Blob             BlobConfig
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	cfg := Config{
		DB_URL:           getEnv("DB_URL", ""),
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENV", "development"),
		PrivateKeyPath:   getEnv("JWT_PRIVATE_KEY_PATH", "keys/private.pem"),
		PublicKeyPath:    getEnv("JWT_PUBLIC_KEY_PATH", "keys/public.pem"),
		EncryptionKey:    decodeEncryptionKey(getEnv("ENCRYPTION_KEY", "")),
		ServiceAccountID: getEnv("SERVICE_ACCOUNT_ID", ""),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
		FFprobePath:      getEnv("FFPROBE_PATH", "ffprobe"),
		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
		Blob: BlobConfig{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
		},
	}
	cfg.CorsConfig = corsConfig(cfg.FrontendURL)
	return cfg
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func decodeEncryptionKey(hexKey string) []byte {
	if hexKey == "" {
		return nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		log.Fatal("ENCRYPTION_KEY is not valid hex:", err)
	}
	if len(key) != 32 {
		log.Fatalf("ENCRYPTION_KEY must be 32 bytes, got %d", len(key))
	}
	return key
}

func corsConfig(frontendURL string) cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", frontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
