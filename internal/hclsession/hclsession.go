// Package hclsession loads verification session files written in HCL. A
// session file carries the same options as the command line plus the input
// paths, so a recurring verification run can be checked into the project
// it verifies. Command-line flags always win over the file.
package hclsession

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/kvasir-mc/kvasir/internal/config"
)

// Session is the decoded content of one session file.
type Session struct {
	// Options holds the file's option assignments, ready to be merged
	// beneath the command line.
	Options *config.Raw

	// Inputs are the program paths named by the file.
	Inputs []string
}

var sessionSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "inputs"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "options"},
	},
}

// Load parses and decodes the session file at path.
func Load(path string) (*Session, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("cannot parse session file %q: %w", path, diags)
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Session, error) {
	content, diags := body.Content(sessionSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	s := &Session{Options: config.NewRaw()}

	if attr, ok := content.Attributes["inputs"]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		inputs, err := stringList(val)
		if err != nil {
			return nil, fmt.Errorf("session attribute \"inputs\": %w", err)
		}
		s.Inputs = inputs
	}

	var optionsBlock *hcl.Block
	for _, block := range content.Blocks {
		if optionsBlock != nil {
			return nil, fmt.Errorf("duplicate \"options\" block at %s", block.DefRange)
		}
		optionsBlock = block
	}
	if optionsBlock == nil {
		return s, nil
	}

	attrs, diags := optionsBlock.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	for _, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		// HCL identifiers cannot contain hyphens, so option names are
		// written with underscores in the file.
		name := strings.ReplaceAll(attr.Name, "_", "-")
		if err := setOption(s.Options, name, val); err != nil {
			return nil, fmt.Errorf("session option %q: %w", attr.Name, err)
		}
	}
	return s, nil
}

// setOption maps one cty value onto the raw option set.
func setOption(raw *config.Raw, name string, val cty.Value) error {
	switch {
	case val.Type() == cty.Bool:
		raw.SetBool(name, val.True())
	case val.Type() == cty.String:
		raw.SetString(name, val.AsString())
	case val.Type() == cty.Number:
		raw.SetString(name, val.AsBigFloat().Text('f', -1))
	case val.Type().IsTupleType() || val.Type().IsListType():
		list, err := stringList(val)
		if err != nil {
			return err
		}
		raw.SetList(name, list)
	default:
		return fmt.Errorf("unsupported value type %s", val.Type().FriendlyName())
	}
	return nil
}

func stringList(val cty.Value) ([]string, error) {
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("expected a list of strings, got %s", val.Type().FriendlyName())
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return nil, fmt.Errorf("expected a list of strings, got element of type %s", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}
