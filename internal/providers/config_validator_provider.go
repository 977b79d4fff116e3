package providers

import (
	"errors"
	"fmt"
	"vehlog/internal/activity"
	"vehlog/internal/structures"

	"github.com/gookit/validate"
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
	if c.conf.Persistence.Driver != "memory" && c.conf.Persistence.Path == "" {
		return errors.New("persistence.path is required for driver " + c.conf.Persistence.Driver)
	}
	if c.conf.Snapshots.Capacity < 0 {
		return errors.New("snapshots.capacity must not be negative")
	}
	if _, err := activity.ParseSeparator(c.conf.Export.Separator); err != nil {
		return fmt.Errorf("export.separator: %w", err)
	}
	return nil
}
