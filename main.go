package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/flipbook-dl/internal/db"
	"github.com/dtnitsch/flipbook-dl/internal/download"
)

const version = "1.0.0"

func main() {
	// .env is optional
	_ = godotenv.Load()

	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	// -v is --verbose here
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}

	return &cli.App{
		Name:                   "flipbook-dl",
		Usage:                  "download the PDF behind a Heyzine flipbook",
		UsageText:              "flipbook-dl [options] URL [URL...]\nflipbook-dl [options] -a FILE",
		Version:                version,
		UseShortOptionHandling: true,
		Reader:                 stdin,
		Writer:                 stdout,
		ErrWriter:              stderr,
		// exit codes are decided by run, not by the library
		ExitErrHandler: func(*cli.Context, error) {},
		Flags:          download.Flags(),
		Action:         download.DownloadAction,
		Commands: []*cli.Command{
			{
				Name:   "history",
				Usage:  "list the downloads recorded in an archive",
				Flags:  db.HistoryFlags(),
				Action: db.HistoryAction,
			},
		},
	}
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	if len(args) > 1 && app.Command(args[1]) == nil {
		args = append(args[:1:1], download.ReorderArgs(args[1:])...)
	}

	err := app.Run(args)
	if err == nil {
		return 0
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintf(stderr, "ERROR: %s\n", msg)
	}

	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	// flag parsing and other usage errors
	return download.ExitValidation
}
