package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Stdout receives command results. Tests replace it.
var Stdout io.Writer = os.Stdout

// Envelope wraps every --json payload that is not a rendered resource.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// JSON writes data to Stdout inside an ok envelope.
func JSON(data any) {
	writeEnvelope(Envelope{Status: "ok", Data: data})
}

// JSONError writes err to Stdout inside an error envelope.
func JSONError(err error) {
	writeEnvelope(Envelope{Status: "error", Error: err.Error()})
}

func writeEnvelope(e Envelope) {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		fmt.Fprintf(diagnostics(), "encoding JSON output: %v\n", err)
	}
}
