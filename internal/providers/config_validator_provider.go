package providers

import (
	"errors"
	"fmt"
	"freegames/internal/structures"
	"github.com/gookit/validate"
	"github.com/robfig/cron/v3"
	"net/url"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	if _, err := cron.ParseStandard(c.conf.Scheduler.Cron); err != nil {
		return fmt.Errorf("scheduler.cron: %w", err)
	}
	if c.conf.Registry.Cooldown < 0 {
		return errors.New("registry.cooldown must not be negative")
	}

	return c.validateSources()
}

func (c *CnfValidator) validateSources() error {
	seen := make(map[string]struct{}, len(c.conf.Sources.List))
	for i, src := range c.conf.Sources.List {
		if src.Name == "" {
			return fmt.Errorf("sources.list[%d]: name is required", i)
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("sources.list[%d]: duplicate source %q", i, src.Name)
		}
		seen[src.Name] = struct{}{}

		u, err := url.Parse(src.Url)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("sources.list[%d]: invalid url %q", i, src.Url)
		}
	}
	if c.conf.Sources.Retries < 0 {
		return errors.New("sources.retries must not be negative")
	}
	return nil
}
