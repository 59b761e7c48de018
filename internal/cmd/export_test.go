package cmd

var (
	SetFlags           = setFlags
	NewLogger          = newLogger
	NewSQSStatusClient = newSQSStatusClient
	WithLoadTimeout    = withLoadTimeout
	LoadFileConfig     = loadFileConfig
)

func DefaultFlags() *Flags {
	return &Flags{
		Concurrency: flagMap.Concurrency.Value,
		Output:      flagMap.Output.Value,
	}
}

func (c *FileConfig) Apply(flgs *Flags, changed func(name string) bool) {
	c.apply(flgs, changed)
}
