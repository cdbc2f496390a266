// Command server runs the blog: the JSON API under /api/v1 and the HTML pages.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/simp-lee/blogbase/internal/app"
	"github.com/simp-lee/blogbase/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	checkOnly := flag.Bool("check", false, "validate the configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	if *checkOnly {
		fmt.Printf("config ok: %s (mode=%s, driver=%s)\n", *configPath, cfg.Server.Mode, cfg.Database.Driver)
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create blog app: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
