package site

import (
	"os"

	"github.com/goccy/go-json"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/search"
)

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(records []search.Record, outputPath string) error {
	if records == nil {
		records = []search.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// WriteDocument writes doc in the same JSON form it is loaded from, so an
// export can be served back with --source.
func WriteDocument(doc *document.Tree, outputPath string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
