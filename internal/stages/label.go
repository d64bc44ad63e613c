package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// classSlug turns a property class into its identifier segment.
func classSlug(class string) string {
	return strings.ReplaceAll(strings.ToLower(class), " ", "_")
}

// labelProperties assigns a stable identifier to every checkable property:
// function name, property class, and a per-class counter in body order. It
// runs after every stage that introduces properties and before any stage
// that narrows the property set; an identifier, once assigned, is never
// changed, because it may already have been reported to a user.
func labelProperties(_ context.Context, m *program.Model, _ *config.Configuration) error {
	for _, name := range m.FunctionNames() {
		counters := make(map[string]int)
		for _, instr := range m.Functions[name].Body {
			if instr.Kind != program.KindAssert || instr.Property == nil {
				continue
			}
			slug := classSlug(instr.Property.Class)
			counters[slug]++
			if instr.Property.ID == "" {
				instr.Property.ID = fmt.Sprintf("%s.%s.%d", name, slug, counters[slug])
			}
		}
	}
	return nil
}
