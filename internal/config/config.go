// Package config loads the mcping configuration.
//
// Values come from, in increasing precedence: built-in defaults, a TOML
// file, MCPING_* environment variables (a .env file is loaded into the
// environment first) and finally command line flags, which the caller
// applies on top of the returned Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/gstoney/mcproto/packet"
)

const (
	// ConfigFileName is the file looked up when no path is given.
	ConfigFileName = "mcping.toml"

	DefaultTimeout  = 5 * time.Second
	DefaultListen   = ":9150"
	DefaultInterval = 30 * time.Second
	DefaultPort     = 25565

	EnvPrefix = "MCPING_"
)

// Config is the complete mcping.toml configuration.
type Config struct {
	// Timeout bounds one status query, dial included.
	Timeout time.Duration `toml:"timeout"`

	// Protocol is the protocol version sent in handshakes.
	Protocol int32 `toml:"protocol"`

	// Servers are polled by the exporter.
	Servers []ServerConfig `toml:"servers"`

	Exporter ExporterConfig `toml:"exporter"`
	Mojang   MojangConfig   `toml:"mojang"`
	AWS      AWSConfig      `toml:"aws"`

	path string
}

// ServerConfig names one Minecraft server. Either Address or EC2Instance
// must be set.
type ServerConfig struct {
	Name        string `toml:"name"`
	Address     string `toml:"address"`
	EC2Instance string `toml:"ec2_instance"`
}

// Label is the name used in metrics.
func (s ServerConfig) Label() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Address != "":
		return s.Address
	}
	return s.EC2Instance
}

type ExporterConfig struct {
	// Listen is the address of the /metrics endpoint.
	Listen string `toml:"listen"`

	// Interval is the time between two polls of every server.
	Interval time.Duration `toml:"interval"`
}

type MojangConfig struct {
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// AWSConfig is used to resolve servers given by EC2 instance id.
type AWSConfig struct {
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
}

// New returns a Config holding the defaults.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Protocol == 0 {
		c.Protocol = packet.ProtocolVersion
	}
	if c.Exporter.Listen == "" {
		c.Exporter.Listen = DefaultListen
	}
	if c.Exporter.Interval <= 0 {
		c.Exporter.Interval = DefaultInterval
	}
}

// Load reads .env files into the environment, then path, then the
// environment overrides. A missing path is only an error when the caller
// named it; with path empty, ConfigFileName is used if it exists.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	c := &Config{}
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	md, err := toml.DecodeFile(path, c)
	switch {
	case err == nil:
		c.path = path
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: %s: unknown key %s", path, undecoded[0])
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDotEnv loads the given files, or .env when none are given, without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() (err error) {
	if v, ok := lookupEnv("TIMEOUT"); ok {
		if c.Timeout, err = time.ParseDuration(v); err != nil {
			return envError("TIMEOUT", err)
		}
	}
	if v, ok := lookupEnv("PROTOCOL"); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return envError("PROTOCOL", err)
		}
		c.Protocol = int32(n)
	}
	if v, ok := lookupEnv("SERVERS"); ok {
		c.Servers = c.Servers[:0]
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				c.Servers = append(c.Servers, ServerConfig{Address: addr})
			}
		}
	}
	if v, ok := lookupEnv("LISTEN"); ok {
		c.Exporter.Listen = v
	}
	if v, ok := lookupEnv("INTERVAL"); ok {
		if c.Exporter.Interval, err = time.ParseDuration(v); err != nil {
			return envError("INTERVAL", err)
		}
	}
	if v, ok := lookupEnv("MOJANG_CACHE_TTL"); ok {
		if c.Mojang.CacheTTL, err = time.ParseDuration(v); err != nil {
			return envError("MOJANG_CACHE_TTL", err)
		}
	}
	if v, ok := lookupEnv("AWS_REGION"); ok {
		c.AWS.Region = v
	}
	if v, ok := lookupEnv("AWS_PROFILE"); ok {
		c.AWS.Profile = v
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	return os.LookupEnv(EnvPrefix + name)
}

func envError(name string, err error) error {
	return fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err)
}

// Validate checks that every server can be reached somehow.
func (c *Config) Validate() error {
	for i, s := range c.Servers {
		if s.Address == "" && s.EC2Instance == "" {
			return fmt.Errorf("config: servers[%d]: address or ec2_instance required", i)
		}
		if s.Address != "" && s.EC2Instance != "" {
			return fmt.Errorf("config: servers[%d]: address and ec2_instance are exclusive", i)
		}
	}
	return nil
}

// Path returns the file the config was read from, if any.
func (c *Config) Path() string {
	return c.path
}
