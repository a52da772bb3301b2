package analyzer

import (
	"strings"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/0x0BSoD/saaHub/internal/model"
)

// responseSchema is the strict output schema shared by all providers.
func responseSchema() *jsonschema.Definition {
	domainNames := lo.Map(model.Domains(), func(d model.Domain, _ int) string { return string(d) })

	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"relevance": {
				Type:        jsonschema.String,
				Enum:        []string{string(model.RelevanceLow), string(model.RelevanceMedium), string(model.RelevanceHigh)},
				Description: "Relevance to SAA-C03 exam objectives",
			},
			"domains": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "Relevant SAA-C03 Domains (" + strings.Join(domainNames, ", ") + ")",
			},
			"examNote": {
				Type:        jsonschema.String,
				Description: "The formatted explanation following the tutor's rules",
			},
			"services": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "Key AWS Services mentioned",
			},
		},
		Required:             []string{"relevance", "domains", "examNote", "services"},
		AdditionalProperties: false,
	}
}
