package contract

import (
	"encoding/json"
	"fmt"
)

// Export renders a contract as the pretty-printed JSON document offered for
// download.
func Export(c Contract) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export contract %s: %w", c.ID, err)
	}
	return data, nil
}

// ExportFilename is the download name for a contract's JSON document.
func ExportFilename(id string) string {
	return "contract-" + id + ".json"
}

// Import parses a document produced by Export.
func Import(data []byte) (Contract, error) {
	var c Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return Contract{}, fmt.Errorf("import contract: %w", err)
	}
	return c, nil
}
