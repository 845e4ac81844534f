package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where vaultview reads its entity data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your vaultview instance
	InstanceURL string

	// Layout selects the default layout engine ("spring" or "spiral")
	Layout string
	// GraphCacheSize caps how many built graphs stay cached
	GraphCacheSize int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from VAULTVIEW_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("VAULTVIEW_MODE", "dev")
	p.Addr = os.Getenv("VAULTVIEW_ADDR")
	if port, err := strconv.Atoi(os.Getenv("VAULTVIEW_PORT")); err == nil && port > 0 {
		p.Port = port
	} else if p.Port == 0 {
		p.Port = 8231
	}
	p.Data = os.Getenv("VAULTVIEW_DATA")
	p.DSN = os.Getenv("VAULTVIEW_DSN")
	p.Driver = getEnvOrDefault("VAULTVIEW_DRIVER", "sqlite")
	p.InstanceURL = os.Getenv("VAULTVIEW_INSTANCE_URL")
	p.Layout = getEnvOrDefault("VAULTVIEW_LAYOUT", "spring")
	if size, err := strconv.Atoi(os.Getenv("VAULTVIEW_GRAPH_CACHE_SIZE")); err == nil && size > 0 {
		p.GraphCacheSize = size
	} else if p.GraphCacheSize == 0 {
		p.GraphCacheSize = 16
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and fills driver defaults.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Layout != "spring" && p.Layout != "spiral" {
		p.Layout = "spring"
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("vaultview_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("postgres driver requires VAULTVIEW_DSN")
		}
	default:
		return errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}
	return nil
}
