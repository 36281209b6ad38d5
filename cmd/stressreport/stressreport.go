package main

import (
	"fmt"
	"io"
	"os"

	"github.com/evergreen-ci/stressreport"
	"github.com/evergreen-ci/stressreport/operations"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	// the command line interface is managed by the cli package, and
	// buildApp() holds all of the configuration needed to run it.
	app := buildApp()
	os.Exit(run(app, os.Args, os.Stderr))
}

// run executes the app and returns the process exit code, reporting any
// error to errOut.
func run(app *cli.App, args []string, errOut io.Writer) int {
	if err := app.Run(args); err != nil {
		fmt.Fprintf(errOut, "%s %s\n", stressreport.FailureMarker, err)
		return 1
	}

	return 0
}

func buildApp() *cli.App {
	app := cli.NewApp()

	app.Name = "stressreport"
	app.Usage = "summarize, compare and export stress test results"
	app.Version = "0.1.0"
	if stressreport.BuildRevision != "" {
		app.Version += " (" + stressreport.BuildRevision + ")"
	}

	app.Commands = []cli.Command{
		operations.Report(),
	}

	// These are global options. Use this to configure logging or
	// other options independent from specific sub commands.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible loglevel as string: 'emergency|alert|critical|error|warning|notice|info|debug'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return errors.WithStack(loggingSetup(app.Name, c.String("level")))
	}

	return app
}

// logging setup is separate to make it unit testable
func loggingSetup(name, logLevel string) error {
	sender := grip.GetSender()
	sender.SetName(name)

	lvl := sender.Level()
	lvl.Threshold = level.FromString(logLevel)
	return errors.WithStack(sender.SetLevel(lvl))
}
