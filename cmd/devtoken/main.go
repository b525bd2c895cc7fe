// Command devtoken mints HS256 bearer tokens for local development against a
// server configured with the same auth.jwt_secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"unify-backend/internal/config"
	"unify-backend/internal/security"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	email := flag.String("email", "", "Email claim (required)")
	groups := flag.String("groups", "", "Comma-separated groups, e.g. 'ChapterHeads' or 'Admins'")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Auth.Provider != config.AuthProviderJWT {
		log.Fatalf("devtoken only works with auth.provider %q", config.AuthProviderJWT)
	}
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		log.Println("warning: auth.jwt_secret is empty; the server will accept this token unverified")
		secret = "unverified-dev-signing-key"
	}

	var groupList []string
	for _, g := range strings.Split(*groups, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groupList = append(groupList, g)
		}
	}

	token, err := security.NewTokenIssuer(secret).Issue(*email, groupList, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
