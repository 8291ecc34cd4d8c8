package cli

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/message"
)

// Config is the optional YAML configuration of the get command.
//
//	base_address: https://api.example.com/v1/
//	timeout: 10s
//	nameserver: 1.1.1.1:53
//	max_content_size: 1048576
//	headers:
//	  Accept: [application/json]
//	  User-Agent: [httphdr/0.1]
type Config struct {
	BaseAddress    string              `yaml:"base_address"`
	Timeout        time.Duration       `yaml:"timeout"`
	NameServer     string              `yaml:"nameserver"`
	MaxContentSize int64               `yaml:"max_content_size"`
	Headers        map[string][]string `yaml:"headers"`
}

// LoadConfig reads the config file, empty path returns an empty config.
func LoadConfig(path string) (*Config, error) {
	cfg := new(Config)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(fmt.Errorf("config %s: %w", path, err)))
	}
	return cfg, nil
}

func (c *Config) baseAddress() (*url.URL, error) {
	if c == nil || c.BaseAddress == "" {
		return nil, nil //nolint:nilnil
	}
	u, err := url.Parse(c.BaseAddress)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	if err := message.CheckRequestURI(u); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return u, nil
}

// applyHeaders adds the configured headers through the validating path.
func (c *Config) applyHeaders(h *message.RequestHeaders) error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, name := range sortedKeys(c.Headers) {
		if err := h.Add(name, c.Headers[name]...); err != nil {
			errs = append(errs, err)
		}
	}
	return errtrace.Wrap(errorutil.JoinPrefix("config headers:", errs...))
}
