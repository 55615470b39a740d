package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"jobboard-api/config"
	"jobboard-api/pkg/auth"
)

// Prints bcrypt hashes for the passwords given as arguments, or one per stdin line.
func main() {
	cost := 0
	if cfg, err := config.LoadConfig(); err == nil {
		cost = cfg.BcryptCost
	}
	hasher := auth.NewPasswordHasher(cost)

	passwords := os.Args[1:]
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				passwords = append(passwords, line)
			}
		}
	}

	for _, pass := range passwords {
		hash, err := hasher.Hash(pass)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println(hash)
	}
}
