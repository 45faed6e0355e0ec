package templates

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"smartshopping-go/internal/domain/shopping"
)

//go:embed builtin.toml
var builtinCatalog []byte

type catalogFile struct {
	Templates []catalogTemplate `toml:"templates"`
}

type catalogTemplate struct {
	ID          string                  `toml:"id"`
	Name        string                  `toml:"name"`
	Description *string                 `toml:"description"`
	Category    string                  `toml:"category"`
	Items       []shopping.TemplateItem `toml:"items"`
}

// ParseCatalog decodes a TOML template catalog into built-in templates.
func ParseCatalog(data []byte) ([]shopping.Template, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Templates))
	templates := make([]shopping.Template, 0, len(file.Templates))
	for _, entry := range file.Templates {
		if entry.ID == "" || entry.Name == "" {
			return nil, fmt.Errorf("parse template catalog: template without id or name")
		}
		if _, ok := seen[entry.ID]; ok {
			return nil, fmt.Errorf("parse template catalog: duplicate id %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}

		category := entry.Category
		if category == "" {
			category = shopping.DefaultTemplateCategory
		}
		items := entry.Items
		if items == nil {
			items = []shopping.TemplateItem{}
		}
		for idx := range items {
			if items[idx].Quantity <= 0 {
				items[idx].Quantity = shopping.DefaultQuantity
			}
		}

		templates = append(templates, shopping.Template{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Category:    category,
			IsPublic:    true,
			Items:       items,
			Source:      shopping.SourceBuiltin,
		})
	}
	return templates, nil
}

// Builtin returns the catalog shipped with the binary.
func Builtin() ([]shopping.Template, error) {
	return ParseCatalog(builtinCatalog)
}
