package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"snapdare/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	NumPosts      int
	NumChallenges int
	ShouldClean   bool
}

// Seed populates the database with test data: users, posts, challenges with
// submissions, plus a mesh of likes, comments and follows. Denormalized
// counters are recomputed from the source tables at the end, so the seeded
// data satisfies the same consistency rules the API maintains.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users, %d posts, %d challenges...",
		opts.NumUsers, opts.NumPosts, opts.NumChallenges)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)
	//nolint:gosec // weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(f, r, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	challenges, err := createChallenges(f, r, users, opts.NumChallenges)
	if err != nil {
		return fmt.Errorf("failed to create challenges: %w", err)
	}
	log.Printf("created %d challenges", len(challenges))

	if err := createSubmissions(f, r, users, challenges); err != nil {
		return fmt.Errorf("failed to create submissions: %w", err)
	}

	if err := createEngagement(f, r, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := RecountAll(db); err != nil {
		return fmt.Errorf("failed to recount counters: %w", err)
	}

	log.Println("Database seeding completed.")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE submissions, challenges, comments, likes, follows, posts, media, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A few fixed accounts so logins stay predictable across re-seeds.
	if count >= 3 {
		for _, name := range []string{"snapdare", "demo", "test"} {
			name := name
			user, err := f.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Bio = "One of the OGs."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(f *Factory, r *rand.Rand, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post, err := f.CreatePost(author, func(p *models.Post) {
			// a sprinkling of non-public posts so feed filtering has teeth
			switch r.Intn(10) {
			case 0:
				p.Visibility = models.VisibilityPrivate
			case 1:
				p.Visibility = models.VisibilityFollowers
			}
		})
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createChallenges(f *Factory, r *rand.Rand, users []*models.User, count int) ([]*models.Challenge, error) {
	challenges := make([]*models.Challenge, 0, count)
	for i := 0; i < count; i++ {
		challenger := users[r.Intn(len(users))]
		challenge, err := f.CreateChallenge(challenger)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}
	return challenges, nil
}

// createSubmissions has a random subset of users enter each challenge, each
// with a fresh post, honoring the one-entry-per-user rule.
func createSubmissions(f *Factory, r *rand.Rand, users []*models.User, challenges []*models.Challenge) error {
	for _, challenge := range challenges {
		entrants := r.Intn(len(users))/2 + 1
		picked := r.Perm(len(users))[:entrants]
		for _, idx := range picked {
			user := users[idx]
			post, err := f.CreatePost(user, func(p *models.Post) {
				p.Visibility = models.VisibilityPublic
			})
			if err != nil {
				return err
			}
			if _, err := f.CreateSubmission(challenge, user, post); err != nil {
				return err
			}
		}
	}
	return nil
}

func createEngagement(f *Factory, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	type pair struct{ a, b uint }
	likedPairs := make(map[pair]bool)
	followPairs := make(map[pair]bool)

	for _, post := range posts {
		for i := 0; i < r.Intn(5); i++ {
			user := users[r.Intn(len(users))]
			key := pair{user.ID, post.ID}
			if likedPairs[key] {
				continue
			}
			likedPairs[key] = true
			if err := f.CreateLike(user, post); err != nil {
				return err
			}
		}
		for i := 0; i < r.Intn(3); i++ {
			user := users[r.Intn(len(users))]
			if _, err := f.CreateComment(user, post); err != nil {
				return err
			}
		}
	}

	for _, follower := range users {
		for i := 0; i < r.Intn(4); i++ {
			followee := users[r.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			key := pair{follower.ID, followee.ID}
			if followPairs[key] {
				continue
			}
			followPairs[key] = true
			if err := f.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecountAll recomputes every denormalized counter from its source table.
func RecountAll(db *gorm.DB) error {
	statements := []string{
		`UPDATE users SET post_count = (
			SELECT COUNT(*) FROM posts
			WHERE posts.author_id = users.id AND posts.deleted_at IS NULL)`,
		`UPDATE users SET follower_count = (
			SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)`,
		`UPDATE users SET following_count = (
			SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)`,
		`UPDATE posts SET like_count = (
			SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)`,
		`UPDATE posts SET comment_count = (
			SELECT COUNT(*) FROM comments
			WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)`,
		`UPDATE challenges SET submission_count = (
			SELECT COUNT(*) FROM submissions WHERE submissions.challenge_id = challenges.id)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
