package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is reported by the version command
const Version = "1.0.0"

// Options is the root of the command line. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Serve   *ServeCmd   `command:"serve"   description:"Run the blog server"`
	Version *VersionCmd `command:"version" description:"Show version information"`
	Config  *ConfigCmd  `command:"config"  description:"Print the effective configuration as YAML"`
}

// Init instantiates the sub-command named by the first argument so that
// go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "serve":
		o.Serve = &ServeCmd{}
	case "version":
		o.Version = &VersionCmd{}
	case "config":
		o.Config = &ConfigCmd{}
	}
}

// ServeCmd runs the HTTP server until SIGINT or SIGTERM
type ServeCmd struct {
	ConfigFlags
}

func (c *ServeCmd) Execute(_ []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	return RunAppServer(context.Background(), cfg)
}

type VersionCmd struct{}

func (c *VersionCmd) Execute(_ []string) error {
	fmt.Printf("rawblog version %s\n", Version)
	return nil
}

// ConfigCmd prints the configuration serve would run with
type ConfigCmd struct {
	ConfigFlags
}

func (c *ConfigCmd) Execute(_ []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

// HandleCommand parses args, runs the selected command and returns an exit code.
func HandleCommand(args []string) int {
	opts := &Options{}
	if len(args) > 0 {
		opts.Init(args[0])
	}

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "rawblog"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			return 0
		}
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	return 0
}
