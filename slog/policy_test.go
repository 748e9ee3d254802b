package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docvec"
	"github.com/fwojciec/docvec/mock"
	dvslog "github.com/fwojciec/docvec/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPolicyFeed_FetchTemplates(t *testing.T) {
	t.Parallel()

	t.Run("logs definition count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PolicyFeed{
			FetchTemplatesFn: func(context.Context) (*docvec.PolicyTemplates, error) {
				return &docvec.PolicyTemplates{PolicyDefinitions: []docvec.PolicyDefinition{{Name: "A"}, {Name: "B"}}}, nil
			},
		}

		feed := dvslog.NewLoggingPolicyFeed(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := feed.FetchTemplates(context.Background())

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `msg="policy feed" definitions=2`)
	})

	t.Run("logs failures at error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.PolicyFeed{
			FetchTemplatesFn: func(context.Context) (*docvec.PolicyTemplates, error) {
				return nil, errors.New("HTTP 503")
			},
		}

		feed := dvslog.NewLoggingPolicyFeed(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := feed.FetchTemplates(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "definitions=0")
	})
}
