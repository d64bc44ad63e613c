package session

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/strategy"
)

// reportEnvelope is the structured form of a session result for the json
// and xml report formats.
type reportEnvelope struct {
	XMLName xml.Name `json:"-" xml:"result"`
	Outcome string   `json:"outcome" xml:"outcome"`
	Report  string   `json:"report" xml:"report"`
}

// report writes the strategy report and the outcome line in the configured
// format. The plain format is the report text followed by the outcome;
// json and xml wrap both in one document.
func (c *Controller) report(cfg *config.Configuration, report string, outcome strategy.Outcome) {
	switch cfg.String("ui") {
	case "json":
		data, err := json.MarshalIndent(reportEnvelope{Outcome: outcome.String(), Report: report}, "", "  ")
		if err != nil {
			fmt.Fprintln(c.out, err.Error())
			return
		}
		fmt.Fprintln(c.out, string(data))
	case "xml":
		data, err := xml.MarshalIndent(reportEnvelope{Outcome: outcome.String(), Report: report}, "", "  ")
		if err != nil {
			fmt.Fprintln(c.out, err.Error())
			return
		}
		fmt.Fprintln(c.out, string(data))
	default:
		fmt.Fprint(c.out, report)
		fmt.Fprintln(c.out, outcome.String())
	}
}
