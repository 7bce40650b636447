package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	Storage    Storage    `yaml:"storage" env-required:"true"`
	Redis      Redis      `yaml:"redis"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
	MinIO      MinIO      `yaml:"minio"`
	Media      Media      `yaml:"media"`
}

type HTTPServer struct {
	Address string `yaml:"address" env-default:"localhost:8080"`
}

// Storage selects the key-value backend the directory services run on.
type Storage struct {
	Backend  string `yaml:"backend" env-default:"memory"` // memory | file | redis | postgres
	FilePath string `yaml:"file_path" env-default:"pixelpal.db.json"`
	PGSQL    PGSQL  `yaml:"pgsql"`
}

type PGSQL struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"password" env-default:"password"`
	DBName   string `yaml:"dbname" env-default:"pixelpal_db"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

// Redis powers the feed cache and rate limiting, and the redis storage
// backend. Leaving Addr empty disables cache and rate limiting.
type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" env-default:"0"`
}

// MinIO holds object storage credentials for photo uploads. Leaving
// Endpoint empty disables the media endpoints.
type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	BucketName      string `yaml:"bucket_name" env-default:"pixelpal-photos"`
	UseSSL          bool   `yaml:"use_ssl" env-default:"false"`
}

type Media struct {
	MaxFileSize      int64    `yaml:"max_file_size" env-default:"10485760"`
	PresignedURLTTL  int      `yaml:"presigned_url_ttl" env-default:"900"`
	AllowedMimeTypes []string `yaml:"allowed_mime_types" env-default:"image/jpeg,image/png,image/gif,image/webp"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}
