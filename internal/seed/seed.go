// Package seed provides the demo leads installed on first start, when the
// configured storage holds no data.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/leadbook/backend/internal/domain"
)

//go:embed leads.yaml
var defaultLeads []byte

// Load returns the seed leads from the YAML file at path, or the embedded demo
// set when path is empty. Statuses and id uniqueness are checked so a typo in a
// hand-edited seed file fails at startup instead of producing a broken lead.
func Load(path string) (domain.Leads, error) {
	raw := defaultLeads
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("seed.Load: read %s: %w", path, err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a YAML list of leads.
func Parse(raw []byte) (domain.Leads, error) {
	var leads domain.Leads
	if err := yaml.Unmarshal(raw, &leads); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}
	if err := leads.Validate(); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}
	for i := range leads {
		if leads[i].Notes == nil {
			leads[i].Notes = []domain.Note{}
		}
	}
	return leads, nil
}
