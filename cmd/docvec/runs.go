package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docvec"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := docvec.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'docvec crawl' or 'docvec policies' to index documents.")
		return nil
	}

	for _, r := range runs {
		status := "ok"
		if !r.OK() {
			status = fmt.Sprintf("%d failed", r.Failed)
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-10s  %d/%d  %s  %s\n",
			r.RunID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Source,
			r.Succeeded, r.Attempted,
			formatDuration(r.Duration),
			status,
		)
	}
	return nil
}
