package configs

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

const DefaultConfigPath = "configs/config.yml"

type Config struct {
	Server struct {
		Address    string `yaml:"address" env:"SERVER_ADDRESS" env-default:":8080" env-description:"HTTP listen address"`
		Production bool   `yaml:"production" env:"SERVER_PRODUCTION" env-description:"Use production logging"`
	} `yaml:"server"`
	Database struct {
		Host     string `yaml:"host" env:"DB_HOST" env-description:"Database host-address"`
		Port     string `yaml:"port" env:"DB_PORT" env-description:"Database port"`
		Dbname   string `yaml:"dbname" env:"DB_NAME" env-description:"Database name"`
		User     string `yaml:"user" env:"DB_USER" env-description:"Database user"`
		Password string `yaml:"password" env:"DB_PASSWORD" env-description:"Database password"`
	} `yaml:"database"`
	Auth struct {
		// Lifetime is the token lifetime in minutes.
		Lifetime int    `yaml:"lifetime" env:"JWT_LIFETIME" env-default:"60" env-description:"Token lifetime in minutes"`
		Secret   string `yaml:"secret" env:"JWT_SECRET" env-description:"Base64-encoded HS512 signing secret"`
	} `yaml:"auth"`
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Database.Host, c.Database.User, c.Database.Password,
		c.Database.Dbname, c.Database.Port,
	)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret must not be empty"))
	}
	if c.Auth.Lifetime <= 0 {
		errs = append(errs, fmt.Errorf("auth.lifetime must be a positive number of minutes, got %d", c.Auth.Lifetime))
	}
	return errors.Join(errs...)
}

type argsCommandLine struct {
	ConfigPath       string
	Address          string
	Host             string
	DatabasePort     string
	Dbname           string
	DatabaseUser     string
	DatabasePassword string
	Lifetime         string
	SecretKey        string
}

func processArgs(argsToParse []string) (*argsCommandLine, map[string]bool, error) {
	a := new(argsCommandLine)
	f := flag.NewFlagSet("api", flag.ContinueOnError)

	f.StringVar(&a.ConfigPath, "c", DefaultConfigPath, "Path to configuration file")
	f.StringVar(&a.Address, "a", "", "HTTP listen address")
	f.StringVar(&a.Host, "db-address", "", "Database host-address")
	f.StringVar(&a.DatabasePort, "db-port", "", "Database port")
	f.StringVar(&a.Dbname, "db-name", "", "Database name")
	f.StringVar(&a.DatabaseUser, "db-user", "", "Database user")
	f.StringVar(&a.DatabasePassword, "db-password", "", "Database password")
	f.StringVar(&a.Lifetime, "t", "", "Token lifetime in minutes")
	f.StringVar(&a.SecretKey, "sk", "", "Base64-encoded secret key for token")

	f.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		f.PrintDefaults()
	}

	if err := f.Parse(argsToParse); err != nil {
		return nil, nil, err
	}

	setFlags := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) {
		setFlags[fl.Name] = true
	})

	return a, setFlags, nil
}

// GetConfig reads the YAML file (when it exists), then the environment, then
// command line flags; later sources win.
func GetConfig(argsToParse []string, logger *zap.Logger) (*Config, error) {
	cfg := new(Config)

	args, setFlags, err := processArgs(argsToParse)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(args.ConfigPath); statErr == nil {
		if err := cleanenv.ReadConfig(args.ConfigPath, cfg); err != nil {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	} else if errors.Is(statErr, os.ErrNotExist) && !setFlags["c"] {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("env read error: %w", err)
		}
	} else {
		return nil, fmt.Errorf("config read error: %w", statErr)
	}

	if err := overrideConfig(cfg, args, setFlags); err != nil {
		return nil, fmt.Errorf("config override error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logConfig(cfg, logger)
	return cfg, nil
}

// flagMapping maps a flag name to the argsCommandLine field holding its value
// and the Config field path it overrides.
var flagMapping = map[string][2]string{
	"a":           {"Address", "Server.Address"},
	"db-address":  {"Host", "Database.Host"},
	"db-port":     {"DatabasePort", "Database.Port"},
	"db-name":     {"Dbname", "Database.Dbname"},
	"db-user":     {"DatabaseUser", "Database.User"},
	"db-password": {"DatabasePassword", "Database.Password"},
	"t":           {"Lifetime", "Auth.Lifetime"},
	"sk":          {"SecretKey", "Auth.Secret"},
}

func overrideConfig(cfg *Config, args *argsCommandLine, setFlags map[string]bool) error {
	argsVal := reflect.ValueOf(args).Elem()
	cfgVal := reflect.ValueOf(cfg).Elem()

	for flagName := range setFlags {
		mapping, ok := flagMapping[flagName]
		if !ok {
			continue
		}

		field := argsVal.FieldByName(mapping[0])
		if !field.IsValid() {
			return fmt.Errorf("invalid argument field: %s", mapping[0])
		}

		if err := setConfigValue(cfgVal, mapping[1], field); err != nil {
			return fmt.Errorf("flag -%s: %w", flagName, err)
		}
	}
	return nil
}

func setConfigValue(cfgVal reflect.Value, path string, value reflect.Value) error {
	fields := strings.Split(path, ".")
	for i, fieldName := range fields {
		cfgField := cfgVal.FieldByName(fieldName)
		if !cfgField.IsValid() {
			return fmt.Errorf("invalid config field: %s", fieldName)
		}

		if i == len(fields)-1 {
			return setFieldValue(cfgField, value)
		}
		cfgVal = cfgField
	}
	return nil
}

func setFieldValue(field, value reflect.Value) error {
	if !field.CanSet() {
		return fmt.Errorf("cannot set field value")
	}

	if field.Type() == value.Type() {
		field.Set(value)
		return nil
	}

	strVal := fmt.Sprint(value.Interface())

	switch field.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(strVal, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %w", err)
		}
		field.SetInt(intVal)
		return nil
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(strVal)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %w", err)
		}
		field.SetBool(boolVal)
		return nil
	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
}

func logConfig(cfg *Config, logger *zap.Logger) {
	logger.Info("Loaded configuration",
		zap.String("server.address", cfg.Server.Address),
		zap.String("database.host", cfg.Database.Host),
		zap.String("database.port", cfg.Database.Port),
		zap.String("database.dbname", cfg.Database.Dbname),
		zap.String("database.user", cfg.Database.User),
		zap.Int("auth.lifetime", cfg.Auth.Lifetime),
	)
}
