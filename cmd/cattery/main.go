package main

import (
	"log"
	"os"
	"time"

	"github.com/lavandercats/cattery"
	"github.com/lavandercats/cattery/views"
)

func main() {
	cfg := cattery.SiteConfig{
		Name:        cattery.EnvOr("SITE_NAME", "LavanderCats"),
		URL:         cattery.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: cattery.EnvOr("SITE_DESCRIPTION", "A small family cattery"),
		Breeder:     cattery.EnvOr("SITE_BREEDER", ""),

		Addr:         cattery.EnvOr("LISTEN_ADDR", ":3000"),
		DatabasePath: cattery.EnvOr("DATABASE_PATH", "data/cattery.db"),
		StaticDir:    cattery.EnvOr("STATIC_DIR", "static"),
		PublicPrefix: cattery.EnvOr("PUBLIC_PREFIX", "/static"),

		MirrorUploadsToDisk: os.Getenv("MIRROR_UPLOADS") == "true",

		AdminPassword: cattery.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: cattery.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}
	if ttl := os.Getenv("ARTICLE_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("invalid ARTICLE_CACHE_TTL: %v", err)
		}
		cfg.ArticleCacheTTL = d
	}

	app := cattery.New(cfg, views.New(cfg).Funcs())
	defer app.Close()
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
