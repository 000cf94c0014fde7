// seed inserts the sample directory, collaboration requests and chamber documents into Postgres.
// Idempotent: rows that already exist are skipped. With VERIFY_PASSWORDS set, seeded
// users without a password get devPassword.
package main

import (
	"context"
	"log"

	"business-nexus/backend/internal/collaboration/repository"
	"business-nexus/backend/internal/config"
	"business-nexus/backend/internal/db"
	docrepo "business-nexus/backend/internal/document/repository"
	"business-nexus/backend/internal/security"
	userrepo "business-nexus/backend/internal/user/repository"
)

const devPassword = "password123"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	creds := userrepo.NewPostgresCredentialStore(conn)
	requests := repository.NewPostgresRepository(conn)
	documents := docrepo.NewPostgresRepository(conn)
	hasher := security.NewHasher(cfg.BcryptCost)

	var addedUsers, addedRequests, addedDocuments int
	for _, u := range userrepo.SeedUsers() {
		existing, err := users.GetByID(ctx, u.ID)
		if err != nil {
			log.Fatalf("lookup user %s: %v", u.ID, err)
		}
		if existing == nil {
			if err := users.Create(ctx, u); err != nil {
				log.Fatalf("create user %s: %v", u.ID, err)
			}
			addedUsers++
		}
		if !cfg.VerifyPasswords {
			continue
		}
		hash, err := creds.GetPasswordHash(ctx, u.ID)
		if err != nil {
			log.Fatalf("lookup password %s: %v", u.ID, err)
		}
		if hash != "" {
			continue
		}
		if hash, err = hasher.Hash(devPassword); err != nil {
			log.Fatalf("hash password: %v", err)
		}
		if err := creds.SetPasswordHash(ctx, u.ID, hash); err != nil {
			log.Fatalf("set password %s: %v", u.ID, err)
		}
	}

	for _, r := range repository.SeedRequests() {
		existing, err := requests.GetByID(ctx, r.ID)
		if err != nil {
			log.Fatalf("lookup request %s: %v", r.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := requests.Create(ctx, r); err != nil {
			log.Fatalf("create request %s: %v", r.ID, err)
		}
		addedRequests++
	}

	for _, d := range docrepo.SeedDocuments() {
		existing, err := documents.GetByID(ctx, d.ID)
		if err != nil {
			log.Fatalf("lookup document %s: %v", d.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := documents.Create(ctx, d); err != nil {
			log.Fatalf("create document %s: %v", d.ID, err)
		}
		addedDocuments++
	}

	log.Printf("seed complete: %d users, %d requests, %d documents added", addedUsers, addedRequests, addedDocuments)
	if cfg.VerifyPasswords {
		log.Printf("seeded users sign in with password %q", devPassword)
	}
}
