package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig holds flag defaults read from the --config file.
// Pointer fields distinguish "not set" from the zero value.
type FileConfig struct {
	All             *bool  `yaml:"all"`
	Profile         string `yaml:"profile"`
	Region          string `yaml:"region"`
	EndpointURL     string `yaml:"endpoint_url"`
	Concurrency     *int   `yaml:"concurrency"`
	SkipErrors      *bool  `yaml:"skip_errors"`
	QueueNamePrefix string `yaml:"queue_name_prefix"`
	Output          string `yaml:"output"`
	NoColor         *bool  `yaml:"no_color"`
	MetricsFile     string `yaml:"metrics_file"`
	LogLevel        string `yaml:"log_level"`
}

func loadFileConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var c FileConfig
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &c, nil
}

// apply copies the file values into flgs, except for flags set on the command line.
func (c *FileConfig) apply(flgs *Flags, changed func(name string) bool) {
	setString := func(name string, dst *string, v string) {
		if v != "" && !changed(name) {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil && !changed(name) {
			*dst = *v
		}
	}
	setBool(flagMap.All.Name, &flgs.All, c.All)
	setString(flagMap.Profile.Name, &flgs.Profile, c.Profile)
	setString(flagMap.Region.Name, &flgs.Region, c.Region)
	setString(flagMap.EndpointURL.Name, &flgs.EndpointURL, c.EndpointURL)
	if c.Concurrency != nil && !changed(flagMap.Concurrency.Name) {
		flgs.Concurrency = *c.Concurrency
	}
	setBool(flagMap.SkipErrors.Name, &flgs.SkipErrors, c.SkipErrors)
	setString(flagMap.QueueNamePrefix.Name, &flgs.QueueNamePrefix, c.QueueNamePrefix)
	setString(flagMap.Output.Name, &flgs.Output, c.Output)
	setBool(flagMap.NoColor.Name, &flgs.NoColor, c.NoColor)
	setString(flagMap.MetricsFile.Name, &flgs.MetricsFile, c.MetricsFile)
	setString(flagMap.LogLevel.Name, &flgs.LogLevel, c.LogLevel)
}
