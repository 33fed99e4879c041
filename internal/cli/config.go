package cli

import (
	"github.com/AndreyAkinshin/tsdl/internal/config"
)

// ConfigCmd prints configurations.
type ConfigCmd struct {
	Current CurrentCmd `cmd:"" default:"withargs" help:"Print the effective configuration: defaults overridden by the configuration file."`
	Default DefaultCmd `cmd:"" help:"Print the built-in defaults."`
}

// FormatFlag selects the syntax of printed configurations.
type FormatFlag struct {
	Format string `short:"F" default:"toml" enum:"toml,yaml" help:"Output format."`
}

// CurrentCmd prints the effective configuration.
type CurrentCmd struct {
	Output FormatFlag `embed:""`
}

// Run prints the defaults merged with the configuration file.
func (c *CurrentCmd) Run(a *app) error {
	cfg, err := a.resolve(nil)
	if err != nil {
		return err
	}
	return a.printConfig(cfg, c.Output.Format, "")
}

// DefaultCmd prints the built-in defaults.
type DefaultCmd struct {
	Output FormatFlag `embed:""`
}

// Run prints the built-in defaults.
func (c *DefaultCmd) Run(a *app) error {
	cfg := config.Default()
	return a.printConfig(&cfg, c.Output.Format, "")
}

func (a *app) printConfig(cfg *config.Config, format, indent string) error {
	f, err := config.ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg, f)
	if err != nil {
		return err
	}
	for _, line := range splitLines(string(data)) {
		a.out.Println("%s%s", indent, line)
	}
	return nil
}
