package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/eringen/postgate"
)

func main() {
	cfg := postgate.Config{
		Name:          postgate.EnvOr("GATE_NAME", "Postgate"),
		Addr:          postgate.EnvOr("GATE_ADDR", ":3000"),
		DatabasePath:  postgate.EnvOr("DATABASE_PATH", "data/postgate.db"),
		HostURL:       postgate.MustEnv("CONTENT_HOST_URL"),
		HostToken:     os.Getenv("CONTENT_HOST_TOKEN"),
		HostTimeout:   envDuration("CONTENT_HOST_TIMEOUT", 10*time.Second),
		AdminPassword: postgate.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: postgate.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}

	app := postgate.New(cfg)

	if err := app.Start(); err != nil {
		app.Close()
		log.Fatal(err)
	}
	app.Close()
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
