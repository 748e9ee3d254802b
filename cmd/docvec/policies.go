package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docvec"
)

// PolicySource is the run source name for policy ingestion.
const PolicySource = "policies"

// Run executes the policies command.
func (c *PoliciesCmd) Run(deps *Dependencies) error {
	templates, err := deps.PolicyFeed.FetchTemplates(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error fetching policies: %s\n", docvec.ErrorMessage(err))
		return err
	}

	docs, skips, err := docvec.PolicyDocuments(templates, docvec.NewKeywordExtractor())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}
	printPolicyStats(deps, docvec.SummarizePolicies(docs))
	reportSkips(deps, skips)

	failed := 0
	if !c.DryRun {
		report, err := indexDocuments(deps, PolicySource, docs)
		if err != nil {
			return err
		}
		failed = report.Failed
	}

	if err := exportDocuments(deps, c.Out, PolicySource, docs); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d policies failed to index", failed)
	}
	return nil
}

func printPolicyStats(deps *Dependencies, stats docvec.PolicyStats) {
	fmt.Fprintf(deps.Stdout, "Policies: %d (%d deprecated, %d device-only, %d per-profile)\n",
		stats.Total, stats.Deprecated, stats.DeviceOnly, stats.PerProfile)
	fmt.Fprintf(deps.Stdout, "  Platforms: %s\n", strings.Join(stats.Platforms, ", "))
	fmt.Fprintf(deps.Stdout, "  Types: %s\n", strings.Join(stats.PolicyTypes, ", "))
}

func reportSkips(deps *Dependencies, skips []docvec.PolicySkip) {
	if len(skips) == 0 {
		return
	}
	for _, s := range skips {
		deps.Logger.Warn("policy skipped", "name", s.Name, "id", s.ID, "reason", s.Reason)
	}
	fmt.Fprintf(deps.Stdout, "  Skipped: %d\n", len(skips))
}
