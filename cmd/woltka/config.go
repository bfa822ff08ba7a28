package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// options holds everything the profile command needs. Each field can come
// from a flag or from a YAML config file; explicit flags win.
type options struct {
	Input    string `yaml:"input"`
	Ext      string `yaml:"ext"`
	Samples  string `yaml:"samples"`
	Output   string `yaml:"output"`
	Mode     string `yaml:"mode"`
	Counts   bool   `yaml:"count"`
	Names    string `yaml:"names"`
	Ranks    string `yaml:"ranks"`
	Nodes    string `yaml:"nodes"`
	NameAsID bool   `yaml:"name_as_id"`
	OutMap   string `yaml:"outmap"`
	Config   string `yaml:"-"`
}

// mergeConfig overlays flag values onto the YAML config, if one was given.
// A field from the config applies only when its flag was left untouched on
// the command line.
func mergeConfig(cmd *cobra.Command, flags options) (options, error) {
	if flags.Config == "" {
		return flags, nil
	}
	data, err := os.ReadFile(flags.Config)
	if err != nil {
		return flags, fmt.Errorf("reading config file: %w", err)
	}
	merged := flags
	var fromFile options
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return flags, fmt.Errorf("parsing config file %s: %w", flags.Config, err)
	}

	set := func(name string, dst, src *string) {
		if !cmd.Flags().Changed(name) && *src != "" {
			*dst = *src
		}
	}
	set("input", &merged.Input, &fromFile.Input)
	set("ext", &merged.Ext, &fromFile.Ext)
	set("samples", &merged.Samples, &fromFile.Samples)
	set("output", &merged.Output, &fromFile.Output)
	set("mode", &merged.Mode, &fromFile.Mode)
	set("names", &merged.Names, &fromFile.Names)
	set("ranks", &merged.Ranks, &fromFile.Ranks)
	set("nodes", &merged.Nodes, &fromFile.Nodes)
	set("outmap", &merged.OutMap, &fromFile.OutMap)
	if !cmd.Flags().Changed("count") {
		merged.Counts = fromFile.Counts
	}
	if !cmd.Flags().Changed("name-as-id") {
		merged.NameAsID = fromFile.NameAsID
	}
	return merged, nil
}
