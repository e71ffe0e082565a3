package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo accounts.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords, full
//     profiles, 4 images and a verification video each.
//  3. Approves the first 16 profiles, leaves 2 pending and 2 in draft.
//  4. Generates likes between approved users with ~70% probability and
//     materializes a match wherever the edges turn out reciprocal.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tables := []string{
		"messages", "matches", "likes", "rejection_reasons",
		"verification_videos", "profile_images", "profiles", "users",
	}
	for _, tbl := range tables {
		if err := db.Exec("DELETE FROM " + tbl).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", tbl, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, tbl := range tables {
			db.Exec(fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", tbl))
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	locations := []string{"London", "Manchester", "Bristol", "Leeds", "Glasgow"}

	for i := 1; i <= 20; i++ {
		gender := "male"
		lookingFor := "female"
		if i > 10 {
			gender, lookingFor = "female", "male"
		}

		status := StatusApproved
		switch {
		case i >= 19:
			status = StatusDraft
		case i >= 17:
			status = StatusPending
		}

		now := time.Now()
		profile := Profile{
			Status:     status,
			Bio:        fmt.Sprintf("Hi, I'm user%d. Ask me anything.", i),
			Age:        20 + r.Intn(20),
			Gender:     gender,
			Location:   locations[r.Intn(len(locations))],
			Height:     155 + r.Intn(40),
			Drink:      r.Intn(2) == 0,
			Smoke:      r.Intn(5) == 0,
			LookingFor: lookingFor,
			Coins:      30,
		}
		if status != StatusDraft {
			profile.SubmittedAt = &now
		}
		if status == StatusApproved {
			profile.ReviewedAt = &now
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Profile:      &profile,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		for j := 1; j <= 4; j++ {
			img := ProfileImage{
				ProfileID: profile.ID,
				ImageURL:  fmt.Sprintf("https://media.example.com/u%d/photo%d.jpg", i, j),
			}
			if err := db.Create(&img).Error; err != nil {
				return fmt.Errorf("failed to seed image: %w", err)
			}
		}
		video := VerificationVideo{
			ProfileID: profile.ID,
			VideoURL:  fmt.Sprintf("https://media.example.com/u%d/selfie.mp4", i),
		}
		if err := db.Create(&video).Error; err != nil {
			return fmt.Errorf("failed to seed video: %w", err)
		}
	}
	log.Println("Seeded 20 users with profiles and media.")

	// Admin account for the review console.
	adminProfile := Profile{Status: StatusApproved, Coins: 30}
	admin := User{
		Username:     "admin",
		Email:        "admin@mixen.app",
		PasswordHash: string(hash),
		IsAdmin:      true,
		Profile:      &adminProfile,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	// Likes among approved users; reciprocal edges become matches.
	var approved []User
	if err := db.Joins("JOIN profiles ON profiles.user_id = users.id AND profiles.status = ?", StatusApproved).
		Where("users.is_admin = false").
		Find(&approved).Error; err != nil {
		return err
	}

	for _, from := range approved {
		for _, to := range approved {
			if from.ID == to.ID || r.Intn(100) >= 70 {
				continue
			}
			like := Like{FromUserID: from.ID, ToUserID: to.ID}
			if err := db.Create(&like).Error; err != nil {
				continue // duplicate from a previous round
			}

			var reciprocal int64
			db.Model(&Like{}).
				Where("from_user_id = ? AND to_user_id = ?", to.ID, from.ID).
				Count(&reciprocal)
			if reciprocal > 0 {
				a, b := from.ID, to.ID
				if b < a {
					a, b = b, a
				}
				db.Create(&Match{UserAID: a, UserBID: b})
			}
		}
	}

	log.Println("Seeded likes and matches.")
	return nil
}
