package main

import (
	"context"
	"os"

	"github.com/jdupak/FEL-PSBrute/cmd/psbrute/cmd"
	"github.com/jdupak/FEL-PSBrute/lib/telemetry"
)

func main() {
	ctx := context.Background()

	// telemetry is optional for a local CLI, absent config just means
	// the no-op providers stay installed
	tel, err := telemetry.SetupFromEnv(ctx, "psbrute")
	if err == nil {
		defer tel.Shutdown(ctx)
	} else if !os.IsNotExist(err) {
		os.Stderr.WriteString("failed to set up telemetry: " + err.Error() + "\n")
	}

	cmd.Execute()
}
