package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda "dev".
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		TTL   string `yaml:"ttl"` // TTL del cache de cuentas (directorio)
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Issuer string `yaml:"issuer"`
		// Secret HMAC compartido. Puede venir por env KEYBOX_JWT_SECRET (prioridad).
		Secret          string `yaml:"secret"`
		AccessAudience  string `yaml:"access_audience"`
		RefreshAudience string `yaml:"refresh_audience"`
		AccessTTL       string `yaml:"access_ttl"`
		RefreshTTL      string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`
}

// Load lee el YAML de path, aplica defaults razonables y valida duraciones.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = 10
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "30s"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "keybox:"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "keybox"
	}
	if c.JWT.AccessAudience == "" {
		c.JWT.AccessAudience = "keybox-api"
	}
	if c.JWT.RefreshAudience == "" {
		c.JWT.RefreshAudience = "keybox-refresh"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "15m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "720h" // 30d; siempre mayor al access TTL
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	// El secret por env pisa al del YAML (nunca commitear secrets).
	if s := strings.TrimSpace(os.Getenv("KEYBOX_JWT_SECRET")); s != "" {
		c.JWT.Secret = s
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret vacío (definir en YAML o env KEYBOX_JWT_SECRET)")
	}

	// Las audiencias separan access de refresh; si coinciden el gate no puede
	// distinguir kinds y un refresh serviría como access.
	if c.JWT.AccessAudience == c.JWT.RefreshAudience {
		return nil, fmt.Errorf("jwt.access_audience y jwt.refresh_audience deben ser distintas")
	}

	// validate string durations
	for _, d := range []string{c.JWT.AccessTTL, c.JWT.RefreshTTL, c.Cache.TTL} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// AccessTTL retorna la duración parseada del access token.
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

// RefreshTTL retorna la duración parseada del refresh token.
func (c *Config) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.RefreshTTL)
	return d
}

// CacheTTL retorna la duración parseada del cache del directorio de cuentas.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}
