package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/netkeeper/internal/app"
	"github.com/dmitrijs2005/netkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/netkeeper/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	a.Run(ctx)

}
