package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	authproviders "github.com/cbodonnell/tavernkeep/pkg/auth/providers"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "", "member or game master id the token is for")
	role := flag.String("role", authproviders.RolePlayer, "token role (player or gm)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: token -subject <id> [-role player|gm] [-ttl 24h]")
		os.Exit(2)
	}

	godotenv.Load()

	secret := os.Getenv("TAVERNKEEP_AUTH_SECRET")
	if secret == "" {
		panic("TAVERNKEEP_AUTH_SECRET environment variable must be set")
	}

	provider, err := authproviders.NewJWTAuthProvider(secret)
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	token, err := provider.MintToken(*subject, *role, *ttl)
	if err != nil {
		panic(fmt.Sprintf("Failed to mint token: %v", err))
	}

	fmt.Println(token)
}
