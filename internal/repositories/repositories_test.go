package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := MigrateGorm(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedComment(t *testing.T, repos Repositories) *models.Comment {
	t.Helper()
	ctx := context.Background()
	post := &models.Post{UserID: "admin", Title: "Hello World", Content: "body", Slug: "hello-world"}
	if err := repos.Posts.CreatePost(ctx, post); err != nil {
		t.Fatal(err)
	}
	comment := &models.Comment{PostID: post.ID, UserID: "alice", Content: "Nice"}
	if err := repos.Comments.CreateComment(ctx, comment); err != nil {
		t.Fatal(err)
	}
	return comment
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	repos := NewGormRepositories(newTestDB(t))
	ctx := context.Background()
	comment := seedComment(t, repos)

	steps := []struct {
		user string
		want []string
	}{
		{user: "u1", want: []string{"u1"}},
		{user: "u2", want: []string{"u1", "u2"}},
		{user: "u1", want: []string{"u2"}},
		{user: "u2", want: []string{}},
	}

	for i, step := range steps {
		got, err := repos.Comments.ToggleLike(ctx, comment.ID, step.user)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !slices.Equal(got.Likes, step.want) {
			t.Errorf("step %d: likes = %v, want %v", i, got.Likes, step.want)
		}
		if got.NumberOfLikes != len(got.Likes) {
			t.Errorf("step %d: numberOfLikes = %d, len(likes) = %d", i, got.NumberOfLikes, len(got.Likes))
		}
	}

	if _, err := repos.Comments.ToggleLike(ctx, "missing", "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleLikeConcurrentUsers(t *testing.T) {
	repos := NewGormRepositories(newTestDB(t))
	ctx := context.Background()
	comment := seedComment(t, repos)

	const users = 10
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repos.Comments.ToggleLike(ctx, comment.ID, fmt.Sprintf("user-%d", i)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("toggle: %v", err)
	}

	got, err := repos.Comments.GetCommentByID(ctx, comment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Likes) != users || got.NumberOfLikes != users {
		t.Errorf("expected %d likes, got %d (counter %d)", users, len(got.Likes), got.NumberOfLikes)
	}
}

func TestDeleteCommentRemovesLikes(t *testing.T) {
	db := newTestDB(t)
	repos := NewGormRepositories(db)
	ctx := context.Background()
	comment := seedComment(t, repos)

	if _, err := repos.Comments.ToggleLike(ctx, comment.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := repos.Comments.DeleteComment(ctx, comment.ID); err != nil {
		t.Fatal(err)
	}

	var rows int64
	if err := db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if rows != 0 {
		t.Errorf("expected like rows to be removed, %d left", rows)
	}
	if err := repos.Comments.DeleteComment(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAddCommentLikeLosingRaceIsNoop(t *testing.T) {
	db := newTestDB(t)
	comment := seedComment(t, NewGormRepositories(db))

	// the same user's other request inserted the row first
	if err := db.Create(&models.CommentLike{CommentID: comment.ID, UserID: "u1"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := addCommentLike(db, comment.ID, "u1"); err != nil {
		t.Fatalf("expected the duplicate insert to be skipped, got %v", err)
	}

	var rows int64
	if err := db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", comment.ID, "u1").Count(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("expected one like row, got %d", rows)
	}
}

func TestUniqueFieldsReportDuplicate(t *testing.T) {
	repos := NewGormRepositories(newTestDB(t))
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	if err := repos.Users.CreateUser(ctx, alice); err != nil {
		t.Fatal(err)
	}
	err := repos.Users.CreateUser(ctx, &models.User{Username: "alice", Email: "other@x.com", Password: "hash"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username: expected ErrDuplicate, got %v", err)
	}

	first := &models.Post{UserID: alice.ID, Title: "Hello World", Content: "body", Slug: "hello-world"}
	if err := repos.Posts.CreatePost(ctx, first); err != nil {
		t.Fatal(err)
	}
	err = repos.Posts.CreatePost(ctx, &models.Post{UserID: alice.ID, Title: "Hello, World", Content: "body", Slug: "hello-world"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate slug: expected ErrDuplicate, got %v", err)
	}
}

func TestMissingRecordsReportNotFound(t *testing.T) {
	repos := NewGormRepositories(newTestDB(t))
	ctx := context.Background()
	name := "bob"

	if _, err := repos.Users.GetUserByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByID: %v", err)
	}
	if _, err := repos.Users.UpdateUser(ctx, "missing", models.UserUpdate{Username: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateUser: %v", err)
	}
	if _, err := repos.Posts.UpdatePost(ctx, "missing", models.PostUpdate{Title: "x", Slug: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePost: %v", err)
	}
	if err := repos.Posts.DeletePost(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeletePost: %v", err)
	}
	if _, err := repos.Comments.UpdateCommentContent(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateCommentContent: %v", err)
	}
	if err := repos.Contacts.DeleteContact(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteContact: %v", err)
	}
}

func TestListPostsSearchEscapesWildcards(t *testing.T) {
	repos := NewGormRepositories(newTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"Growth of 50% a year", "Snake_case naming", "Plain title"} {
		post := &models.Post{UserID: "admin", Title: title, Content: "body", Slug: models.Slugify(title)}
		if err := repos.Posts.CreatePost(ctx, post); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		term string
		want []string
	}{
		{term: "50%", want: []string{"Growth of 50% a year"}},
		{term: "%", want: []string{"Growth of 50% a year"}},
		{term: "e_c", want: []string{"Snake_case naming"}},
		{term: "PLAIN", want: []string{"Plain title"}},
		{term: "missing", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			posts, err := repos.Posts.ListPosts(ctx, models.PostFilter{SearchTerm: tt.term}, models.ListOptions{Limit: 10})
			if err != nil {
				t.Fatal(err)
			}
			got := make([]string, len(posts))
			for i, p := range posts {
				got[i] = p.Title
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("search %q = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestCountSince(t *testing.T) {
	db := newTestDB(t)
	repos := NewGormRepositories(db)
	ctx := context.Background()

	old := &models.ContactMessage{UserID: "u1", Name: "Old"}
	recent := &models.ContactMessage{UserID: "u1", Name: "Recent"}
	for _, msg := range []*models.ContactMessage{old, recent} {
		if err := repos.Contacts.CreateContact(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}

	for _, u := range []*models.User{
		{Username: "old", Email: "old@x.com", Password: "h"},
		{Username: "new", Email: "new@x.com", Password: "h"},
	} {
		if err := repos.Users.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	longAgo := time.Now().UTC().AddDate(0, -3, 0)
	if err := db.Model(&models.User{}).Where("username = ?", "old").Update("created_at", longAgo).Error; err != nil {
		t.Fatal(err)
	}

	all, err := repos.Users.CountUsers(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	lastMonth, err := repos.Users.CountUsers(ctx, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		t.Fatal(err)
	}
	if all != 2 || lastMonth != 1 {
		t.Errorf("CountUsers: all = %d, last month = %d; want 2 and 1", all, lastMonth)
	}

	msgs, err := repos.Contacts.ListContacts(ctx, models.ListOptions{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].ID != recent.ID {
		t.Errorf("expected newest contact first, got %+v", msgs)
	}
}
