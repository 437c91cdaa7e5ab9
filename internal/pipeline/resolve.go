package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/pmcgrab/internal/batch"
	"github.com/ternarybob/pmcgrab/internal/errs"
	"github.com/ternarybob/pmcgrab/internal/identifiers"
	"github.com/ternarybob/pmcgrab/internal/ncbi"
)

// Mode is one of the CLI's six mutually exclusive input modes (spec §6).
type Mode string

const (
	ModePMCIDs    Mode = "pmcids"
	ModePMIDs     Mode = "pmids"
	ModeDOIs      Mode = "dois"
	ModeIDFile    Mode = "id-file"
	ModeDirectory Mode = "directory"
	ModeFiles     Mode = "files"
)

// ResolveInputs turns one input mode's raw arguments into a list of
// batch.Item in input order. Only the pmids/dois conversion path drops
// duplicate tokens; batch.Run deduplicates items by ID before fetching. In
// id-file mode the PMCID lines come first, in file order, followed by the
// converted lines. PMID/DOI tokens are converted to
// PMCIDs via C4's IDConvert before the batch starts, so the orchestrator
// itself only ever deals in PMCIDs and local paths.
func ResolveInputs(ctx context.Context, mode Mode, args []string, client *ncbi.Client) ([]batch.Item, error) {
	switch mode {
	case ModePMCIDs:
		return pmcidItems(args)
	case ModePMIDs:
		return convertedItems(ctx, args, client)
	case ModeDOIs:
		return convertedItems(ctx, args, client)
	case ModeIDFile:
		return idFileItems(ctx, args, client)
	case ModeDirectory:
		return directoryItems(args)
	case ModeFiles:
		return fileItems(args)
	default:
		return nil, errs.New(errs.UnsupportedInput, "ResolveInputs", fmt.Errorf("unknown mode %q", mode))
	}
}

func pmcidItems(raw []string) ([]batch.Item, error) {
	items := make([]batch.Item, 0, len(raw))
	for _, r := range raw {
		pmcid, err := identifiers.NormalizePMCID(r)
		if err != nil {
			return nil, err
		}
		items = append(items, batch.Item{ID: pmcid, PMCID: pmcid})
	}
	return items, nil
}

// convertedItems handles both the pmids and dois modes: each token is
// resolved to a PMCID via the NCBI ID Converter (C4/C10) before the item
// enters the batch.
func convertedItems(ctx context.Context, raw []string, client *ncbi.Client) ([]batch.Item, error) {
	deduped := identifiers.DedupPreserveOrder(raw)
	pmcids, err := client.IDConvertBatch(ctx, deduped)
	if err != nil {
		return nil, err
	}
	items := make([]batch.Item, 0, len(pmcids))
	for i, pmcid := range pmcids {
		items = append(items, batch.Item{ID: deduped[i], PMCID: pmcid})
	}
	return items, nil
}

// idFileItems reads one identifier per line from a text file (spec §6's
// id-file mode). A line that parses as a PMCID, including a bare number, is
// taken as a PMCID; every other line (such as a DOI) goes through the ID
// Converter. A PMID, being a bare number, is therefore read as a PMCID here.
func idFileItems(ctx context.Context, args []string, client *ncbi.Client) ([]batch.Item, error) {
	if len(args) != 1 {
		return nil, errs.New(errs.UnsupportedInput, "idFileItems", fmt.Errorf("id-file mode takes exactly one path"))
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, errs.New(errs.NotFound, "idFileItems", err)
	}
	defer f.Close()

	var pmcidTokens, otherTokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if identifiers.IsPMCID(line) {
			pmcidTokens = append(pmcidTokens, line)
		} else {
			otherTokens = append(otherTokens, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.New(errs.IOFailed, "idFileItems", err)
	}

	items, err := pmcidItems(pmcidTokens)
	if err != nil {
		return nil, err
	}
	if len(otherTokens) > 0 {
		converted, err := convertedItems(ctx, otherTokens, client)
		if err != nil {
			return nil, err
		}
		items = append(items, converted...)
	}
	return items, nil
}

func directoryItems(args []string) ([]batch.Item, error) {
	if len(args) != 1 {
		return nil, errs.New(errs.UnsupportedInput, "directoryItems", fmt.Errorf("directory mode takes exactly one path"))
	}
	it, err := ncbi.WalkDirectory(args[0])
	if err != nil {
		return nil, err
	}
	var items []batch.Item
	for {
		path, ok := it.Next()
		if !ok {
			break
		}
		items = append(items, batch.Item{ID: path, LocalPath: path})
	}
	return items, nil
}

func fileItems(args []string) ([]batch.Item, error) {
	items := make([]batch.Item, 0, len(args))
	for _, path := range args {
		items = append(items, batch.Item{ID: path, LocalPath: path})
	}
	return items, nil
}
