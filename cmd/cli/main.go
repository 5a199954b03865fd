package main

import (
	"context"
	"log"
	"os"

	"github.com/miguelherrera-611/vetclinic/internal/buildinfo"
	"github.com/miguelherrera-611/vetclinic/internal/client/app"
	"github.com/miguelherrera-611/vetclinic/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
