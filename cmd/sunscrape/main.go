package main

import (
	"context"

	"sunscrape/cmd/sunscrape/commands"
	"sunscrape/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
