package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/flipbook-dl/pkg/db"
	"github.com/dtnitsch/flipbook-dl/pkg/progress"
)

// HistoryFlags are the options of the history command.
func HistoryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "download-archive", Usage: "SQLite archive `FILE` to read", EnvVars: []string{"FLIPBOOK_DL_ARCHIVE"}, Required: true},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "show at most `N` entries, 0 for all"},
	}
}

// HistoryAction lists the download archive, most recent first.
func HistoryAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("download-archive"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open archive: %v", err), 1)
	}
	defer database.Close()

	downloads, err := database.ListDownloads(c.Int("limit"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to list downloads: %v", err), 1)
	}

	out := c.App.Writer
	if len(downloads) == 0 {
		fmt.Fprintln(out, "No downloads recorded")
		return nil
	}

	// Print table header
	fmt.Fprintf(out, "%-6s %-20s %-10s %-24s %-30s %s\n",
		"ID", "Downloaded", "Size", "Key", "Title", "File")
	fmt.Fprintln(out, strings.Repeat("-", 120))

	for _, d := range downloads {
		fmt.Fprintf(out, "%-6d %-20s %-10s %-24s %-30s %s\n",
			d.DownloadID,
			d.DownloadedAt.Format("2006-01-02 15:04:05"),
			progress.FormatBytes(d.SizeBytes),
			truncate(d.ArchiveKey, 24),
			truncate(d.Title, 30),
			d.FilePath,
		)
	}

	fmt.Fprintf(out, "\nTotal: %d downloads\n", len(downloads))
	return nil
}
