package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/logging"
)

type checkOptions struct {
	File   string
	Output string
	Probe  []string

	Logger *logging.Logger
}

func newCheckCommand() *cobra.Command {
	cmdOpts := &checkOptions{Logger: logging.Global()}

	cmd := &cobra.Command{
		Use:               "check FILE",
		Short:             "Build a container from FILE and describe its entries",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdOpts.File = args[0]
			if err := cmdOpts.validate(); err != nil {
				return err
			}
			return cmdOpts.run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&cmdOpts.Output, "output", "o", "yaml", "Output format: yaml or json")
	cmd.Flags().StringSliceVar(&cmdOpts.Probe, "has", nil, "Names to look up before describing")

	return cmd
}

func (o *checkOptions) validate() error {
	switch o.Output {
	case "yaml", "json":
		return nil
	}
	return fmt.Errorf("unsupported output format %q", o.Output)
}

// checkReport is what check prints.
type checkReport struct {
	File    string                  `json:"file" yaml:"file"`
	Has     map[string]bool         `json:"has,omitempty" yaml:"has,omitempty"`
	Entries []container.Description `json:"entries" yaml:"entries"`
}

func (o *checkOptions) run(out io.Writer) error {
	cfg, err := container.LoadConfigFile(o.File)
	if err != nil {
		return err
	}
	types := container.NewTypeRegistry()
	if err = app.RegisterBuiltinTypes(types); err != nil {
		return err
	}
	c, err := container.FromConfig(cfg, container.WithTypes(types), container.WithLogger(o.Logger))
	if err != nil {
		return fmt.Errorf("error building container from %s: %w", o.File, err)
	}

	report := checkReport{File: o.File}
	if len(o.Probe) > 0 {
		report.Has = make(map[string]bool, len(o.Probe))
		for _, name := range o.Probe {
			report.Has[name] = c.Has(name)
		}
	}
	report.Entries = c.Descriptions()

	if o.Output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err = enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
