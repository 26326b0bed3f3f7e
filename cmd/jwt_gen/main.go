package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hijjiri/todo-api/internal/auth"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "AUTH_SECRET is required (server と同じ値を使う)")
		os.Exit(1)
	}
	subject := getenv("JWT_SUBJECT", "user-123")

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "24h"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid JWT_TTL: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.GenerateToken(secret, subject, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	// 標準出力にはトークンだけを出す（curl -H "Authorization: Bearer $(...)" 用）
	fmt.Print(token)
}
