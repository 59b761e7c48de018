package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vvatanabe/sqsstatus/internal/constant"
)

var flgs = &Flags{}

type Flags struct {
	All             bool
	Profile         string
	Region          string
	EndpointURL     string
	Concurrency     int
	SkipErrors      bool
	QueueNamePrefix string
	Output          string
	NoColor         bool
	MetricsFile     string
	LogLevel        string
	Config          string
}

const (
	outputText = "text"
	outputJSON = "json"
)

var flagMap = FlagMap{
	All: FlagSet[bool]{
		Name:      "all",
		Shorthand: "a",
		Usage:     "Print all SQS queues instead of only non-empty queues.",
		Value:     false,
	},
	Profile: FlagSet[string]{
		Name:      "profile",
		Shorthand: "p",
		Usage:     "AWS profile to use. Overrides the standard AWS profile resolution.",
		Value:     "",
	},
	Region: FlagSet[string]{
		Name:      "region",
		Shorthand: "r",
		Usage:     "AWS region to target. Overrides the standard AWS region resolution.",
		Value:     "",
	},
	EndpointURL: FlagSet[string]{
		Name:  "endpoint-url",
		Usage: "Override command's default URL with the given URL.",
		Value: "",
	},
	Concurrency: FlagSet[int]{
		Name:  "concurrency",
		Usage: "Maximum number of queues whose attributes are fetched at the same time.",
		Value: constant.DefaultConcurrency,
	},
	SkipErrors: FlagSet[bool]{
		Name:  "skip-errors",
		Usage: "Skip queues whose attributes cannot be fetched instead of failing.",
		Value: false,
	},
	QueueNamePrefix: FlagSet[string]{
		Name:  "queue-name-prefix",
		Usage: "Only report queues whose name starts with the given prefix.",
		Value: "",
	},
	Output: FlagSet[string]{
		Name:      "output",
		Shorthand: "o",
		Usage:     "Output format: text or json.",
		Value:     outputText,
	},
	NoColor: FlagSet[bool]{
		Name:  "no-color",
		Usage: "Disable bold and italic output.",
		Value: false,
	},
	MetricsFile: FlagSet[string]{
		Name:  "metrics-file",
		Usage: "Also write the queue status to the given file in Prometheus textfile format.",
		Value: "",
	},
	LogLevel: FlagSet[string]{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn or error. Defaults to $" + constant.LogLevelEnv + " or " + constant.DefaultLogLevel + ".",
		Value: "",
	},
	Config: FlagSet[string]{
		Name:  "config",
		Usage: "YAML file with default values for these flags.",
		Value: "",
	},
}

type FlagSet[T any] struct {
	Name      string
	Shorthand string
	Usage     string
	Value     T
}

type FlagMap struct {
	All             FlagSet[bool]
	Profile         FlagSet[string]
	Region          FlagSet[string]
	EndpointURL     FlagSet[string]
	Concurrency     FlagSet[int]
	SkipErrors      FlagSet[bool]
	QueueNamePrefix FlagSet[string]
	Output          FlagSet[string]
	NoColor         FlagSet[bool]
	MetricsFile     FlagSet[string]
	LogLevel        FlagSet[string]
	Config          FlagSet[string]
}

func setFlags(c *cobra.Command, flgs *Flags) {
	fs := c.Flags()
	fs.BoolVarP(&flgs.All, flagMap.All.Name, flagMap.All.Shorthand, flagMap.All.Value, flagMap.All.Usage)
	fs.StringVarP(&flgs.Profile, flagMap.Profile.Name, flagMap.Profile.Shorthand, flagMap.Profile.Value, flagMap.Profile.Usage)
	fs.StringVarP(&flgs.Region, flagMap.Region.Name, flagMap.Region.Shorthand, flagMap.Region.Value, flagMap.Region.Usage)
	fs.StringVar(&flgs.EndpointURL, flagMap.EndpointURL.Name, flagMap.EndpointURL.Value, flagMap.EndpointURL.Usage)
	fs.IntVar(&flgs.Concurrency, flagMap.Concurrency.Name, flagMap.Concurrency.Value, flagMap.Concurrency.Usage)
	fs.BoolVar(&flgs.SkipErrors, flagMap.SkipErrors.Name, flagMap.SkipErrors.Value, flagMap.SkipErrors.Usage)
	fs.StringVar(&flgs.QueueNamePrefix, flagMap.QueueNamePrefix.Name, flagMap.QueueNamePrefix.Value, flagMap.QueueNamePrefix.Usage)
	fs.StringVarP(&flgs.Output, flagMap.Output.Name, flagMap.Output.Shorthand, flagMap.Output.Value, flagMap.Output.Usage)
	fs.BoolVar(&flgs.NoColor, flagMap.NoColor.Name, flagMap.NoColor.Value, flagMap.NoColor.Usage)
	fs.StringVar(&flgs.MetricsFile, flagMap.MetricsFile.Name, flagMap.MetricsFile.Value, flagMap.MetricsFile.Usage)
	fs.StringVar(&flgs.LogLevel, flagMap.LogLevel.Name, flagMap.LogLevel.Value, flagMap.LogLevel.Usage)
	fs.StringVar(&flgs.Config, flagMap.Config.Name, flagMap.Config.Value, flagMap.Config.Usage)
}
