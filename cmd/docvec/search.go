package main

import (
	"fmt"

	"github.com/fwojciec/docvec"
)

// searchOverfetch widens the query so kind filtering still fills the limit
// when the index holds both articles and policies.
const searchOverfetch = 4

// Run executes the search articles command.
func (c *SearchArticlesCmd) Run(deps *Dependencies) error {
	return search(deps, c.Query, c.Limit, func(kind string) bool {
		return kind != string(docvec.KindPolicy)
	})
}

// Run executes the search policies command.
func (c *SearchPoliciesCmd) Run(deps *Dependencies) error {
	return search(deps, c.Query, c.Limit, func(kind string) bool {
		return kind == string(docvec.KindPolicy)
	})
}

func search(deps *Dependencies, query string, limit int, keep func(kind string) bool) error {
	if docvec.IsBlank(query) {
		err := docvec.Errorf(docvec.EINVALID, "query required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}
	if limit <= 0 {
		limit = 5
	}

	hits, err := deps.Index.Query(deps.Ctx, query, limit*searchOverfetch)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvec.ErrorMessage(err))
		return err
	}

	rank := 0
	for _, h := range hits {
		kind, _ := h.Metadata["kind"].(string)
		if !keep(kind) {
			continue
		}
		rank++
		title, _ := h.Metadata["title"].(string)
		url, _ := h.Metadata["url"].(string)
		if url == "" {
			url = h.ID
		}
		fmt.Fprintf(deps.Stdout, "%d. %s\n   %s (score %.3f)\n", rank, title, url, h.Score)
		if rank == limit {
			break
		}
	}
	if rank == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
	}
	return nil
}
