package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"printshop_app_go/config"
	"printshop_app_go/middleware"
)

func main() {
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	// A generated development secret dies with the process, so tokens signed with it are useless
	if os.Getenv("ADMIN_TOKEN_SECRET") == "" {
		log.Fatal("ADMIN_TOKEN_SECRET is not set")
	}

	username := strings.TrimSpace(flag.Arg(0))
	if username == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Println("=== Issue Admin Token ===")
		fmt.Print("Username: ")
		line, _ := reader.ReadString('\n')
		username = strings.TrimSpace(line)
	}
	if username == "" {
		log.Fatal("Username is required")
	}
	if *ttl <= 0 {
		log.Fatal("Token lifetime must be positive")
	}

	token, err := middleware.NewJWTAuthorizer(cfg.AdminTokenSecret).Sign(username, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println()
	fmt.Printf("Token for %s (expires %s):\n", username, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(token)
}
