package config

import (
	"fmt"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/editor"
)

// NewLocator builds the locator named by cfg.Locator.
func (c Config) NewLocator() (anchor.Locator, error) {
	switch c.Locator {
	case "", "substring":
		return anchor.SubstringLocator{MinLength: c.MinMatchLength}, nil
	case "diff":
		return anchor.DiffLocator{MinLength: c.MinMatchLength, Threshold: c.DiffThreshold, Distance: c.DiffDistance}, nil
	default:
		return nil, fmt.Errorf("config: unknown locator %q", c.Locator)
	}
}

// EditorStrategy returns the display strategy named by cfg.Strategy.
func (c Config) EditorStrategy() (editor.Strategy, error) {
	switch editor.Strategy(c.Strategy) {
	case "", editor.MarkStrategy:
		return editor.MarkStrategy, nil
	case editor.DecorationStrategy:
		return editor.DecorationStrategy, nil
	default:
		return "", fmt.Errorf("config: unknown strategy %q", c.Strategy)
	}
}
