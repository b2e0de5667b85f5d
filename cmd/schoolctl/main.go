package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/schoolsite/internal/bootstrap"
	"github.com/yigit/schoolsite/internal/cli"
	"github.com/yigit/schoolsite/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.OpenPostgres, config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
