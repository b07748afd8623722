// main executable.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ysh86/pngme/internal/commands"
	"github.com/ysh86/pngme/internal/conf"
	"github.com/ysh86/pngme/internal/logger"
)

var version = "v0.0.0"

var exit = os.Exit

type encodeCmd struct {
	File    string `arg:"" type:"path" help:"PNG file."`
	Type    string `arg:"" help:"Chunk type, 4 characters."`
	Message string `arg:"" help:"Message to hide."`
	Output  string `arg:"" optional:"" type:"path" help:"Output file. The input file is overwritten when omitted."`
}

func (c *encodeCmd) Run(r *commands.Runner) error {
	return r.Encode(c.File, c.Type, c.Message, c.Output)
}

type decodeCmd struct {
	File string `arg:"" type:"path" help:"PNG file."`
	Type string `arg:"" help:"Chunk type, 4 characters."`
}

func (c *decodeCmd) Run(r *commands.Runner) error {
	return r.Decode(c.File, c.Type)
}

type removeCmd struct {
	File string `arg:"" type:"path" help:"PNG file."`
	Type string `arg:"" help:"Chunk type, 4 characters."`
}

func (c *removeCmd) Run(r *commands.Runner) error {
	return r.Remove(c.File, c.Type)
}

type printCmd struct {
	File string `arg:"" type:"path" help:"PNG file."`
}

func (c *printCmd) Run(r *commands.Runner) error {
	return r.Print(c.File)
}

type cli struct {
	Config   string           `help:"Path to a config file. The default is ${defaultConf}." env:"PNGME_CONFIG" type:"path"`
	LogLevel string           `help:"Log level: error, warn, info or debug." env:"PNGME_LOG_LEVEL"`
	NoVerify bool             `help:"Do not verify chunk CRCs."`
	Version  kong.VersionFlag `help:"Print version."`

	Encode encodeCmd `cmd:"" help:"Hide a message inside a new chunk."`
	Decode decodeCmd `cmd:"" help:"Print the message of the first chunk of a type."`
	Remove removeCmd `cmd:"" help:"Remove the first chunk of a type."`
	Print  printCmd  `cmd:"" help:"List the chunks of a file."`
}

func loadConf(c *cli) (*conf.Conf, bool, error) {
	cnf, found, err := conf.Load(c.Config)
	if err != nil {
		return nil, false, err
	}

	if c.LogLevel != "" {
		if err := cnf.LogLevel.Set(c.LogLevel); err != nil {
			return nil, false, err
		}
	}
	if c.NoVerify {
		cnf.VerifyChecksums = false
	}

	return cnf, found, nil
}

func run(args []string, stdout io.Writer) int {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("pngme"),
		kong.Description("pngme "+version+": hide messages inside PNG files."),
		kong.UsageOnError(),
		kong.Writers(stdout, os.Stderr),
		kong.Exit(exit),
		kong.Vars{
			"version":     version,
			"defaultConf": conf.DefaultPath,
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	cnf, found, err := loadConf(&c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		return 1
	}

	l := &logger.Logger{
		Level:        logger.Level(cnf.LogLevel),
		Destinations: cnf.LogDestinations,
		File:         cnf.LogFile,
	}
	if err := l.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		return 1
	}
	defer l.Close()

	if found {
		confPath := c.Config
		if confPath == "" {
			confPath = conf.DefaultPath
		}
		l.Log(logger.Debug, "configuration loaded from %s", confPath)
	}

	err = ctx.Run(&commands.Runner{
		Conf:   cnf,
		Logger: l,
		Stdout: stdout,
	})
	if err != nil {
		l.Log(logger.Error, "%s", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
