// Package config holds the runtime settings of the BOQ service. Settings are
// bound to flags on the PocketBase root command so they can be given next to
// the built-in ones (e.g. `serve --boq-contingency=7.5`).
package config

import (
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"

	"boqtracker/boq"
)

// Settings configures the BOQ service.
type Settings struct {
	// ContingencyPercent is applied to new BOQs. Existing BOQs keep the rate
	// they were created with.
	ContingencyPercent float64
	// LockSubmittedItems rejects item edits on submitted, in-review and
	// approved BOQs.
	LockSubmittedItems bool
	// SeedDemo loads demo BOQs into the registry on startup.
	SeedDemo bool
	// DefaultActor is stamped when a request carries no identity.
	DefaultActor string
}

// Defaults returns the settings used when no flags are given.
func Defaults() Settings {
	return Settings{
		ContingencyPercent: float64(boq.DefaultContingencyBP) / 100,
		LockSubmittedItems: false,
		SeedDemo:           true,
		DefaultActor:       "system",
	}
}

// BindFlags registers the settings on fs, using the current values of s as
// defaults.
func BindFlags(fs *pflag.FlagSet, s *Settings) {
	fs.Float64Var(&s.ContingencyPercent, "boq-contingency", s.ContingencyPercent,
		"contingency percentage applied to new BOQs")
	fs.BoolVar(&s.LockSubmittedItems, "boq-lock-submitted", s.LockSubmittedItems,
		"reject item edits once a BOQ is submitted")
	fs.BoolVar(&s.SeedDemo, "boq-seed-demo", s.SeedDemo,
		"load demo BOQs into the registry on startup")
	fs.StringVar(&s.DefaultActor, "boq-default-actor", s.DefaultActor,
		"actor recorded when a request has no identity")
}

// Validate checks the settings.
func (s Settings) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.ContingencyPercent, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&s.DefaultActor, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ContingencyBP returns the contingency rate in basis points.
func (s Settings) ContingencyBP() int64 {
	return int64(math.Round(s.ContingencyPercent * 100))
}
