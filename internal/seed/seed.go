package seed

import (
	"fmt"
	"log"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// MaxDays spreads generated timestamps over the last N days.
	MaxDays int
	// DryRun builds entities without touching the database.
	DryRun bool
}

// Seed populates the database with demo users, posts and comments. A slice
// of the generated posts is edited or tombstoned so moderation surfaces have
// something to show.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	comments, err := createComments(f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", comments)

	if err := applyModerationHistory(f, users, posts); err != nil {
		return fmt.Errorf("failed to apply edit/delete history: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE audit_logs, comments, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A predictable admin for local testing.
	if count >= 1 {
		admin, err := f.CreateUser(func(u *models.User) {
			u.Username = "moderator"
			u.Email = "moderator@example.com"
			u.Role = models.RoleAdmin
		})
		if err == nil {
			users = append(users, admin)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(f *Factory, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[f.rng.Intn(len(users))]
		posts = append(posts, f.BuildPost(user))
	}

	const batchSize = 200
	for start := 0; start < len(posts); start += batchSize {
		end := start + batchSize
		if end > len(posts) {
			end = len(posts)
		}
		if err := f.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

func createComments(f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	if len(users) == 0 || len(posts) == 0 {
		return 0, nil
	}

	created := 0
	for _, post := range posts {
		n := f.rng.Intn(5)
		var parent *models.Comment
		for i := 0; i < n; i++ {
			user := users[f.rng.Intn(len(users))]

			// roughly a third of comments are replies to an earlier one
			var replyTo *models.Comment
			if parent != nil && f.rng.Intn(3) == 0 {
				replyTo = parent
			}

			comment, err := f.CreateComment(user, post, replyTo)
			if err != nil {
				return created, err
			}
			parent = comment
			created++
		}
	}
	return created, nil
}

// applyModerationHistory edits a tenth of the posts and tombstones another
// twentieth, so listings, edit markers and 410 responses can be exercised
// against seeded data.
func applyModerationHistory(f *Factory, users []*models.User, posts []*models.Post) error {
	if len(users) == 0 {
		return nil
	}

	admin := users[0]
	for i, post := range posts {
		switch {
		case i%20 == 10:
			if err := f.MarkDeleted(post, admin); err != nil {
				return err
			}
		case i%10 == 5:
			editor := admin
			if f.rng.Intn(2) == 0 {
				editor = users[f.rng.Intn(len(users))]
			}
			if err := f.MarkEdited(post, editor); err != nil {
				return err
			}
		}
	}
	return nil
}
