package console

import (
	"github.com/okian/biz/internal/i18n"
	"github.com/okian/biz/pkg/logger"
)

// Option applies a configuration option to the Console.
type Option func(*Console)

// WithLogger sets a custom logger for the console.
func WithLogger(l logger.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLocalizer sets the locale used for card titles and labels.
func WithLocalizer(l *i18n.Localizer) Option {
	return func(c *Console) {
		if l != nil {
			c.loc = l
		}
	}
}
