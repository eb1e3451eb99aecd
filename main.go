// meshctl deploys Service Fabric Mesh applications from ARM templates and
// manages mesh resources and ExpressRoute cross-connections.
package main

import (
	"os"
	"time"

	"github.com/kjourdan1/meshctl/cmd"
	"github.com/kjourdan1/meshctl/internal/audit"
	"github.com/kjourdan1/meshctl/internal/exitcode"
	"github.com/kjourdan1/meshctl/internal/output"
	_ "github.com/kjourdan1/meshctl/schemas"
)

func main() {
	start := time.Now()
	if err := cmd.Execute(); err != nil {
		code := exitcode.Of(err)
		event := audit.BuildEvent(os.Args, "failure", code, time.Since(start))
		_ = audit.Write(event)
		output.PrintError(err)
		os.Exit(code)
	}

	event := audit.BuildEvent(os.Args, "success", exitcode.OK, time.Since(start))
	_ = audit.Write(event)
}
