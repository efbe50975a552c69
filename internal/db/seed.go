package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all tables.
//  2. Seeds the three subscription tiers.
//  3. Creates 20 onboarded users with hashed passwords.
//  4. Generates verdicts with ~70% likes; every 3rd pair is made mutual so
//     matches (and their conversations) exist out of the box.
//  5. Creates a handful of posts with likes and comments so the feed and
//     trending endpoints return data.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(gdb *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	tables := []string{
		"messages", "conversations", "matches", "user_likes",
		"comments", "likes", "posts", "users", "tiers",
	}
	for _, table := range tables {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch gdb.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			gdb.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		gdb.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	// --- Tiers ---
	tiers := []Tier{
		{Name: "Free", Price: 0, Description: "Basic access"},
		{Name: "Silver", Price: 1000, Description: "Silver subscription"},
		{Name: "Gold", Price: 2000, Description: "Gold subscription"},
	}
	if err := gdb.Create(&tiers).Error; err != nil {
		return fmt.Errorf("failed to seed tiers: %w", err)
	}

	// --- Users ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	locations := []string{"London", "Manchester", "Bristol", "Leeds"}
	for i := 1; i <= 20; i++ {
		gender := "male"
		if i > 10 {
			gender = "female"
		}
		user := User{
			Name:         fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Age:          20 + r.Intn(20),
			Gender:       gender,
			Location:     locations[r.Intn(len(locations))],
			Bio:          fmt.Sprintf("Hi, I'm user%d", i),
			Onboarded:    true,
			TierID:       &tiers[0].ID,
		}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	var users []User
	if err := gdb.Order("id").Find(&users).Error; err != nil {
		return err
	}

	// --- Verdicts (and mutual likes → matches) ---
	counter := 0
	for _, actor := range users {
		for j := 0; j < 8; j++ {
			target := users[r.Intn(len(users))]
			if actor.ID == target.ID || actor.Gender == target.Gender {
				continue
			}

			liked := r.Intn(100) < 70
			if counter%3 == 0 {
				liked = true
				if err := upsertVerdict(gdb, target.ID, actor.ID, true); err != nil {
					return err
				}
				if err := materializeMatch(gdb, actor.ID, target.ID); err != nil {
					return err
				}
			}
			if err := upsertVerdict(gdb, actor.ID, target.ID, liked); err != nil {
				return err
			}
			counter++
		}
	}
	log.Println("Seeded verdicts and matches.")

	// --- Posts, likes, comments ---
	for i, author := range users {
		if i%2 != 0 {
			continue
		}
		post := Post{
			AuthorID: author.ID,
			Content:  fmt.Sprintf("Hello from %s!", author.Name),
		}
		if i%4 == 0 {
			post.MediaURLs = []string{fmt.Sprintf("https://cdn.example.com/%s.jpg", author.Name)}
		}
		if err := gdb.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}

		for k := 0; k < r.Intn(5); k++ {
			liker := users[r.Intn(len(users))]
			gdb.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&Like{UserID: liker.ID, PostID: post.ID})
		}
		for k := 0; k < r.Intn(3); k++ {
			commenter := users[r.Intn(len(users))]
			gdb.Create(&Comment{PostID: post.ID, UserID: commenter.ID, Content: "Nice post!"})
		}
	}
	log.Println("Seeded posts with engagement.")

	return nil
}

func upsertVerdict(gdb *gorm.DB, from, to uint64, liked bool) error {
	verdict := UserLike{FromUserID: from, ToUserID: to, Liked: liked}
	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
	}).Create(&verdict).Error
}

func materializeMatch(gdb *gorm.DB, x, y uint64) error {
	a, b := x, y
	if a > b {
		a, b = b, a
	}
	match := Match{UserAID: a, UserBID: b}
	res := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
		DoNothing: true,
	}).Create(&match)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		conv := Conversation{MatchID: match.ID}
		return gdb.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}},
			DoNothing: true,
		}).Create(&conv).Error
	}
	return nil
}
