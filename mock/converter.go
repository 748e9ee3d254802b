package mock

import "github.com/fwojciec/docvec"

var _ docvec.Converter = (*Converter)(nil)

// Converter is a mock implementation of docvec.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
