package mock

import "github.com/fwojciec/docvec"

var _ docvec.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docvec.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docvec.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docvec.ExtractResult, error) {
	return e.ExtractFn(html)
}
