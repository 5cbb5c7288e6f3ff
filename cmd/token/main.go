// cmd/token/main.go
// API 用戶端 Token 簽發工具

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"crm-mail-api/internal/config"
	"crm-mail-api/internal/services"
)

func main() {
	clientID := flag.String("client", "crm-backend", "client id written to the sub claim")
	ttl := flag.Duration("ttl", 0, "token lifetime, 0 for a non-expiring token")
	flag.Parse()

	// 載入設定 (使用 API_JWT_SECRET)
	cfg := config.Load()

	issuer, err := services.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}

	token, err := issuer.Issue(*clientID, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	if *ttl > 0 {
		log.Printf("Token for %s expires at %s", *clientID, time.Now().Add(*ttl).Format(time.RFC3339))
	}
	fmt.Println(token)
}
