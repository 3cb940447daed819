package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Token transports accepted by TOKEN_TRANSPORT.
const (
	TransportBearer = "bearer"
	TransportCookie = "cookie"
	TransportBoth   = "both"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	StaticDir string `env:"STATIC_DIR"`

	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For.
	// Empty means the peer address is the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Session   SessionConfig
	Bootstrap BootstrapConfig
	Login     LoginConfig
	Audit     AuditConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type SessionConfig struct {
	Transport  string `env:"TOKEN_TRANSPORT, default=bearer"`
	CookieName string `env:"SESSION_COOKIE,  default=auth-token"`
	LoginPath  string `env:"LOGIN_PATH,      default=/login"`
}

type BootstrapConfig struct {
	Name     string `env:"BOOTSTRAP_ADMIN_NAME, default=Admin"`
	Email    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	Password string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type LoginConfig struct {
	RateLimit  int           `env:"LOGIN_RATE_LIMIT,  default=10"`
	RateWindow time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_console"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=250ms"`
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET must not be empty")
	}
	switch c.Session.Transport {
	case TransportBearer, TransportCookie, TransportBoth:
	default:
		return fmt.Errorf("config: unsupported TOKEN_TRANSPORT %q", c.Session.Transport)
	}
	if c.Login.RateLimit < 0 {
		return fmt.Errorf("config: LOGIN_RATE_LIMIT must not be negative")
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyNets parses TrustedProxies. A bare IP is taken as a single
// host.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		cidr := raw
		if ip := net.ParseIP(raw); ip != nil {
			if ip.To4() != nil {
				cidr = raw + "/32"
			} else {
				cidr = raw + "/128"
			}
		}
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q", raw)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// Load reads configuration from environment variables using go-envconfig.
// A missing signing secret or invalid value is fatal.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom resolves configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
