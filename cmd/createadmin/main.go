// Command createadmin bootstraps an administrator account.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/gauravnehare1411/introducer-app-backend/internal/password"
	"github.com/gauravnehare1411/introducer-app-backend/internal/repository"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/config"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/database"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const adminReferralID = "ADMIN"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.Mongo.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to MongoDB: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	userRepo := repository.NewUserRepository(
		client.Database(cfg.Mongo.Database).Collection(database.UsersCollection),
	)

	reader := bufio.NewReader(os.Stdin)

	email := domain.NormalizeEmail(prompt(reader, "Email: "))
	name := strings.TrimSpace(prompt(reader, "Name: "))
	contactNumber := strings.TrimSpace(prompt(reader, "Contact Number: "))

	pass := promptPassword("Password: ")
	confirm := promptPassword("Confirm Password: ")
	if pass != confirm {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to check existing user: %v\n", err)
		os.Exit(1)
	}
	if existing != nil {
		fmt.Fprintln(os.Stderr, "a user with this email already exists")
		os.Exit(1)
	}

	hash, err := password.Hash(pass)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	admin := &domain.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		ContactNumber: contactNumber,
		ReferralID:    adminReferralID,
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		CreatedAt:     time.Now(),
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Admin user created successfully.")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func promptPassword(label string) string {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
		os.Exit(1)
	}
	return strings.TrimSpace(string(b))
}
