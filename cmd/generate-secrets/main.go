package main

import (
	"fmt"
	"log"

	"github.com/staffrevenue/revenue-manager/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Unlock Token Secret Generator")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateUnlockTokenSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Secret generated successfully!")
	fmt.Println()
	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("UNLOCK_TOKEN_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("IMPORTANT: Keep this secret safe and never commit it to version control!")
	fmt.Println("===========================================")
}
