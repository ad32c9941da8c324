package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/couchcryptid/disaster-dashboard/internal/adapter/terminal"
	"github.com/couchcryptid/disaster-dashboard/internal/domain"
)

type tableCommand struct {
	app *app

	Year       int      `long:"year" short:"y" description:"Year to show (defaults to the newest year)"`
	Categories []string `long:"category" short:"c" description:"Category to include, repeatable (defaults to all)"`
}

// Execute prints the rendered view. Empty and no-match views report their
// message on stderr and still succeed.
func (c *tableCommand) Execute(_ []string) error {
	ds, err := c.app.load()
	if err != nil {
		return err
	}

	sel := domain.DefaultSelection(ds.Events)
	if c.Year != 0 {
		sel.Year = c.Year
	}
	if len(c.Categories) > 0 {
		sel.Categories = c.Categories
	}

	view := domain.Render(ds, sel)
	fmt.Fprintln(c.app.stderr, view.Message)
	if view.Status != domain.ViewOK {
		return nil
	}
	fmt.Fprintf(c.app.stderr, "%s (%d of %d events)\n", view.Heading, view.Count, view.Total)
	return terminal.WriteTable(c.app.stdout, view.Rows)
}

type optionsCommand struct {
	app *app
}

func (c *optionsCommand) Execute(_ []string) error {
	ds, err := c.app.load()
	if err != nil {
		return err
	}
	if len(ds.Events) == 0 {
		fmt.Fprintln(c.app.stderr, domain.Render(ds, domain.Selection{}).Message)
		return nil
	}

	yearCounts := make(map[string]int)
	catCounts := make(map[string]int)
	for _, e := range ds.Events {
		yearCounts[strconv.Itoa(e.Year)]++
		catCounts[e.Category]++
	}
	years := make([]string, 0, len(yearCounts))
	for _, y := range domain.Years(ds.Events) {
		years = append(years, strconv.Itoa(y))
	}

	fmt.Fprintln(c.app.stdout, "YEARS")
	if err := terminal.WriteCounts(c.app.stdout, years, yearCounts); err != nil {
		return err
	}
	fmt.Fprintln(c.app.stdout)
	fmt.Fprintln(c.app.stdout, "CATEGORIES")
	return terminal.WriteCounts(c.app.stdout, domain.Categories(ds.Events), catCounts)
}

type dumpCommand struct {
	app *app

	Out string `long:"out" short:"o" required:"true" description:"Output file, or - for stdout"`
}

type dumpFile struct {
	Title  string            `json:"title"`
	Events []domain.RawEvent `json:"events"`
}

func (c *dumpCommand) Execute(_ []string) error {
	q, err := c.app.query()
	if err != nil {
		return err
	}
	client, err := c.app.client()
	if err != nil {
		return err
	}
	events, err := client.Fetch(c.app.ctx, q)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(dumpFile{Title: "EONET Events", Events: events}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	data = append(data, '\n')

	if c.Out == "-" {
		_, err = c.app.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.Out, data, 0o644); err != nil { //nolint:gosec // fixture output is not sensitive
		return fmt.Errorf("write %s: %w", c.Out, err)
	}
	fmt.Fprintf(c.app.stderr, "wrote %d events to %s\n", len(events), c.Out)
	return nil
}
