package shindan

import (
	"shindan-scraper/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("shindan")

// SetInstrumentOutput starts dumping every http exchange this client
// makes to the given output, meant for debugging scrapes locally.
func (c *Client) SetInstrumentOutput(out restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.http, out)
}
