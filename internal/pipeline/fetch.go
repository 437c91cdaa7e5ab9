// Package pipeline wires the XML access layer (C1), retry policy (C3),
// and parser/assembler (C5-C7) into the batch.FetchFunc the orchestrator
// (C9) calls for each item, and resolves the CLI's six input modes into
// batch.Item lists.
package pipeline

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pmcgrab/internal/batch"
	"github.com/ternarybob/pmcgrab/internal/errs"
	"github.com/ternarybob/pmcgrab/internal/jats"
	"github.com/ternarybob/pmcgrab/internal/models"
	"github.com/ternarybob/pmcgrab/internal/ncbi"
)

// RemoteFetch returns a batch.FetchFunc that acquires XML over NCBI
// Entrez Fetch (C1), retrying per client's policy (C3), then parses and
// assembles the Document (C5-C7). logger may be nil.
func RemoteFetch(client *ncbi.Client, policy ncbi.RetryPolicy, logger arbor.ILogger) batch.FetchFunc {
	return func(ctx context.Context, item batch.Item) (*models.Document, int, error) {
		var data []byte
		attempt, err := ncbi.ExecuteWithRetry(ctx, logger, policy, nil, func() error {
			b, ferr := client.FetchRemote(ctx, item.PMCID)
			if ferr != nil {
				return ferr
			}
			data = b
			return nil
		})
		if err != nil {
			return nil, attempt.Count, err
		}

		doc, perr := jats.ParseAndAssemble(data, item.PMCID)
		if perr != nil {
			return nil, attempt.Count, errs.New(parseFailureKind(perr), "RemoteFetch", perr)
		}
		return doc, attempt.Count, nil
	}
}

// parseFailureKind preserves the Kind jats.Parse/ParseAndAssemble already
// attached to perr (ParseError for malformed XML, ValidationError for
// well-formed-but-non-JATS input) instead of collapsing every parse
// failure into ParseError, so ValidationError still reaches the ledger's
// error_counts as its own kind. errs.KindOf falls back to ConfigError for
// errors that never carried a Kind at all; that case shouldn't arise here
// since every jats parse-stage failure is already an *errs.Error, but
// ParseError is the safer default for this call site if it ever does.
func parseFailureKind(perr error) errs.Kind {
	switch k := errs.KindOf(perr); k {
	case errs.ParseError, errs.ValidationError:
		return k
	default:
		return errs.ParseError
	}
}

// LocalFetch returns a batch.FetchFunc that reads XML from disk (C1) and
// parses/assembles it. Local reads are not retried: a missing or
// malformed file will not become present or well-formed on a second try.
func LocalFetch() batch.FetchFunc {
	return func(ctx context.Context, item batch.Item) (*models.Document, int, error) {
		data, err := ncbi.ReadLocal(item.LocalPath)
		if err != nil {
			return nil, 1, err
		}
		doc, err := jats.ParseAndAssemble(data, item.PMCID)
		if err != nil {
			return nil, 1, errs.New(parseFailureKind(err), "LocalFetch", err)
		}
		return doc, 1, nil
	}
}
