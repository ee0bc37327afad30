package config

// Config holds app configuration
type Config struct {
	// InputFile is a local path or an s3://bucket/key URI
	InputFile string `mapstructure:"input"`

	// OutputPath is the manifest file for list and the destination
	// directory for extract
	OutputPath string `mapstructure:"output"`

	// Entry is the name of the entry to extract, as stored in the
	// central directory
	Entry string `mapstructure:"entry"`

	// Raw allows extracting encrypted entries as stored
	Raw bool `mapstructure:"raw"`

	// AWSProfile is the shared config profile used for s3:// inputs
	AWSProfile string `mapstructure:"aws_profile"`

	DryRun       bool   `mapstructure:"dry_run"`
	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
