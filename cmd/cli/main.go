package main

import (
	"context"
	"log"
	"os"

	"github.com/ddanilovs/chargekeeper/internal/buildinfo"
	"github.com/ddanilovs/chargekeeper/internal/cli"
	"github.com/ddanilovs/chargekeeper/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
