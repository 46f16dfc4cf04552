package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/finboard.yaml"

type Application struct {
	API      API      `koanf:"api"`
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	AMQP     AMQP     `koanf:"amqp"`
	Sheets   Sheets   `koanf:"sheets"`
	Reports  Reports  `koanf:"reports"`
}

type API struct {
	BaseURL string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type AMQP struct {
	Enabled       bool   `koanf:"enabled"`
	URL           string `koanf:"url"`
	Exchange      string `koanf:"exchange"`
	RoutingPrefix string `koanf:"routingprefix"`
}

type Sheets struct {
	Enabled         bool   `koanf:"enabled"`
	SpreadsheetId   string `koanf:"spreadsheetid"`
	CredentialsFile string `koanf:"credentialsfile"`
}

type Reports struct {
	Concurrency int `koanf:"concurrency"`
}

func defaults() Application {
	return Application{
		API: API{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 30 * time.Second,
		},
		Server: Server{
			Addr: ":8282",
		},
		Database: Database{
			Driver: "sqlite",
			Path:   "./data/finboard.db",
			Host:   "localhost",
			Port:   5432,
			User:   "finboard",
			Name:   "finboard",
			Schema: "finboard",
		},
		AMQP: AMQP{
			Exchange:      "finboard",
			RoutingPrefix: "finboard",
		},
		Reports: Reports{
			Concurrency: 4,
		},
	}
}

// Load reads the configuration from defaults, the optional YAML file at path and FINBOARD_ environment variables,
// in that order of precedence. A .env file in the working directory is loaded into the environment first.
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("unable to load .env file: %v", err)
	}

	var k = koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			log.Debugf("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "FINBOARD_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINBOARD_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return app, nil
}

func (a Application) Validate() error {
	var problems []string

	if strings.TrimSpace(a.API.BaseURL) == "" {
		problems = append(problems, "api.baseurl must not be empty")
	}
	switch a.Database.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("unknown db.driver %q, expected sqlite or postgres", a.Database.Driver))
	}
	if a.AMQP.Enabled && a.AMQP.URL == "" {
		problems = append(problems, "amqp.url is required when amqp is enabled")
	}
	if a.Sheets.Enabled && a.Sheets.SpreadsheetId == "" {
		problems = append(problems, "sheets.spreadsheetid is required when sheets is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
