// scripts/generate_password.go
//
// Generates a bcrypt hash for a password, for seeding accounts or
// resetting an admin password directly in the database.
//
//	go run scripts/generate_password.go 'my-password'
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	password := os.Args[1]

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to generate hash: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Fatalf("Hash verification failed: %v", err)
	}

	fmt.Println(string(hash))
	fmt.Println("✅ Hash generated and verified")
}
