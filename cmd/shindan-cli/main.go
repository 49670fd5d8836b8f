package main

import (
	"shindan-scraper/cmd/shindan-cli/commands"
	"shindan-scraper/lib/serviceutil"
	"shindan-scraper/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "shindan-cli")
	commands.ExecuteContext(ctx)
}
