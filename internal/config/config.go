package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Site    Site    `yaml:"site"`
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
}

type Site struct {
	Name string `yaml:"name"`
	FQDN string `yaml:"fqdn"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Storage struct {
	// Backend selects the bucket store: "s3" or "filesystem".
	Backend       string `yaml:"backend"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"accessKey"`
	SecretKey     string `yaml:"secretKey"`
	UseSSL        bool   `yaml:"useSSL"`
	MediaDir      string `yaml:"mediaDir"`
	PublicBaseURL string `yaml:"publicBaseURL"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = "filesystem"
	}
	if config.Storage.MediaDir == "" {
		config.Storage.MediaDir = "./media"
	}

	return config, nil
}
