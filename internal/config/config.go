package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer `yaml:"http_server"`
	Clients    ClientsConfig `yaml:"clients"`
	Database   Database      `yaml:"database"`
	ImageCache ImageCache    `yaml:"image_cache"`
	Session    Session       `yaml:"session"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:3000"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	Cors        []string      `yaml:"cors" env-default:"[http://localhost:3000]"`
}

type Client struct {
	BaseURL string        `yaml:"base_url" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
	// Rate caps outgoing requests per second; 0 disables the limiter.
	Rate  float64 `yaml:"rate" env-default:"0"`
	Burst int     `yaml:"burst" env-default:"1"`
}

type ClientsConfig struct {
	Catalog Client `yaml:"catalog"`
	GameLog Client `yaml:"gamelog"`
	Auth    Client `yaml:"auth"`
}

// Database configures the optional catalog cache. An empty host disables it.
type Database struct {
	Host       string        `yaml:"host" env:"HOST"`
	Port       int           `yaml:"port" env:"PORT" env-default:"3306"`
	UsernameDB string        `yaml:"username-db" env:"USERNAMEDB"`
	Password   string        `yaml:"password" env:"PASSWORD"`
	DBName     string        `yaml:"dbname" env:"DBNAME" env-default:"questlog"`
	TTL        time.Duration `yaml:"ttl" env-default:"6h"`
}

type ImageCache struct {
	Path    string        `yaml:"path" env:"IMAGE_CACHE_PATH" env-default:"./covers"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

type Session struct {
	TTL          time.Duration `yaml:"ttl" env-default:"24h"`
	CookieSecure bool          `yaml:"cookie_secure" env-default:"false"`
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()
	if *configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", *configPath)
	}

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadConfig(*configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s - %s", *configPath, err)
	}

	return &cfg
}

func (cfg *Database) Enabled() bool {
	return cfg.Host != ""
}

func (cfg *Database) GetDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.UsernameDB,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)
}
