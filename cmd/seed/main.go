package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"findhouse/internal/config"
	"findhouse/internal/db"
	"findhouse/internal/model"
	"findhouse/internal/repository"
)

type demoListing struct {
	title    string
	content  string
	note     string
	location string
	price    string
	status   model.PostStatus
	ageDays  int
}

var demoListings = []demoListing{
	{
		title:    "Sunny two-bedroom apartment near the river",
		content:  "Second floor, balcony facing east, fully furnished kitchen.",
		note:     "Available from the first of next month.",
		location: "District 2",
		price:    "650",
		status:   model.PostStatusApproved,
		ageDays:  2,
	},
	{
		title:    "Compact studio in the old quarter",
		content:  "Renovated last year, shared rooftop terrace, fast fiber internet.",
		location: "Old Quarter",
		price:    "320",
		status:   model.PostStatusApproved,
		ageDays:  5,
	},
	{
		title:    "Family house with garden",
		content:  "Three bedrooms, two baths, small garden with fruit trees.",
		note:     "Pets welcome.",
		location: "Green Hills",
		price:    "1200",
		status:   model.PostStatusApproved,
		ageDays:  9,
	},
	{
		title:    "Room in shared flat, students preferred",
		content:  "Ten minutes by bike from campus, utilities included.",
		location: "University Quarter",
		price:    "180",
		status:   model.PostStatusPending,
		ageDays:  1,
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.PostImage{},
		&model.Rating{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	author, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (id=%d)", author.Email, author.ID)

	created := 0
	for _, l := range demoListings {
		price, err := decimal.NewFromString(l.price)
		if err != nil {
			log.Printf("Skipping %q: bad price %q", l.title, l.price)
			continue
		}

		post := &model.Post{
			Title:     l.title,
			Content:   l.content,
			Note:      l.note,
			Location:  l.location,
			Price:     &price,
			Author:    author.Name,
			AuthorID:  author.ID,
			Status:    l.status,
			CreatedAt: time.Now().AddDate(0, 0, -l.ageDays),
		}
		if err := postRepo.Create(ctx, post); err != nil {
			log.Printf("Skipping %q: %v", l.title, err)
			continue
		}
		created++
	}

	log.Printf("Seed completed: %d listings created", created)
}

func ensureDemoUser(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	const email = "demo@findhouse.local"

	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		return existing, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo12345"), 10)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:         "Demo Lister",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         "user",
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
