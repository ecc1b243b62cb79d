package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeInteractionStore mirrors the Mongo operations' contracts over
// in-memory maps: push-if-absent matches only when no entry for the user
// exists, pull reports mongo.ErrNoDocuments for a missing book.
type fakeInteractionStore struct {
	books   map[primitive.ObjectID]*models.Book
	users   map[primitive.ObjectID]*models.User
	entries []*models.ReadingListEntry
}

func newFakeInteractionStore() *fakeInteractionStore {
	return &fakeInteractionStore{
		books: make(map[primitive.ObjectID]*models.Book),
		users: make(map[primitive.ObjectID]*models.User),
	}
}

func (f *fakeInteractionStore) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	return f.books[id], nil
}

func (f *fakeInteractionStore) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeInteractionStore) PushLikeIfAbsent(ctx context.Context, bookID primitive.ObjectID, like models.Like) (bool, error) {
	book, ok := f.books[bookID]
	if !ok || book.LikedBy(like.UserID) {
		return false, nil
	}
	book.Likes = append(book.Likes, like)
	return true, nil
}

func (f *fakeInteractionStore) PullLike(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	book, ok := f.books[bookID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	for i, l := range book.Likes {
		if l.UserID == userID {
			book.Likes = append(book.Likes[:i], book.Likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInteractionStore) PushSaveIfAbsent(ctx context.Context, bookID primitive.ObjectID, save models.Save) (bool, error) {
	book, ok := f.books[bookID]
	if !ok || book.SavedBy(save.UserID) {
		return false, nil
	}
	book.Saves = append(book.Saves, save)
	return true, nil
}

func (f *fakeInteractionStore) PullSave(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error) {
	book, ok := f.books[bookID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	for i, s := range book.Saves {
		if s.UserID == userID {
			book.Saves = append(book.Saves[:i], book.Saves[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInteractionStore) PushComment(ctx context.Context, bookID primitive.ObjectID, comment models.Comment) error {
	book, ok := f.books[bookID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	book.Comments = append(book.Comments, comment)
	return nil
}

func (f *fakeInteractionStore) LikesCount(ctx context.Context, bookID primitive.ObjectID) (int, error) {
	book, ok := f.books[bookID]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	return len(book.Likes), nil
}

func (f *fakeInteractionStore) UpsertReadingListEntry(ctx context.Context, entry *models.ReadingListEntry) error {
	for _, e := range f.entries {
		if e.UserID == entry.UserID && e.BookID != nil && entry.BookID != nil && *e.BookID == *entry.BookID {
			return nil
		}
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeInteractionStore) DeleteReadingListEntryByBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.UserID == userID && e.BookID != nil && *e.BookID == bookID {
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return nil
}

func (f *fakeInteractionStore) addBook(title string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.books[id] = &models.Book{
		ID:          id,
		Title:       title,
		Author:      "Someone",
		Description: "A book",
		CoverImage:  "https://storage.test/cover.jpg",
		PDFFile:     "https://storage.test/book.pdf",
	}
	return id
}

func (f *fakeInteractionStore) addUser(username, profileImage string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users[id] = &models.User{ID: id, Username: username, ProfileImage: profileImage}
	return id
}

func sessionUser(id primitive.ObjectID, username string) models.SessionUser {
	return models.SessionUser{ID: id, Username: username}
}

func TestToggleLike(t *testing.T) {
	store := newFakeInteractionStore()
	svc := NewInteractionService(store)
	ctx := context.Background()
	bookID := store.addBook("Dune")
	userA := sessionUser(primitive.NewObjectID(), "alice")
	userB := sessionUser(primitive.NewObjectID(), "bob")

	liked, count, err := svc.ToggleLike(ctx, bookID, userA)
	if err != nil {
		t.Fatal(err)
	}
	if !liked || count != 1 {
		t.Fatalf("first toggle: liked=%v count=%d, want true 1", liked, count)
	}

	liked, count, err = svc.ToggleLike(ctx, bookID, userA)
	if err != nil {
		t.Fatal(err)
	}
	if liked || count != 0 {
		t.Fatalf("second toggle: liked=%v count=%d, want false 0", liked, count)
	}

	if _, _, err := svc.ToggleLike(ctx, bookID, userA); err != nil {
		t.Fatal(err)
	}
	liked, count, err = svc.ToggleLike(ctx, bookID, userB)
	if err != nil {
		t.Fatal(err)
	}
	if !liked || count != 2 {
		t.Fatalf("second user: liked=%v count=%d, want true 2", liked, count)
	}
	likes := store.books[bookID].Likes
	if likes[0].Username != "alice" || likes[1].Username != "bob" {
		t.Errorf("likes not in insertion order: %v", likes)
	}
}

func TestToggleLikeMissingBook(t *testing.T) {
	svc := NewInteractionService(newFakeInteractionStore())
	_, _, err := svc.ToggleLike(context.Background(), primitive.NewObjectID(), sessionUser(primitive.NewObjectID(), "alice"))
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestToggleSaveMaintainsReadingList(t *testing.T) {
	store := newFakeInteractionStore()
	svc := NewInteractionService(store)
	ctx := context.Background()
	bookID := store.addBook("Dune")
	user := sessionUser(primitive.NewObjectID(), "alice")

	saved, err := svc.ToggleSave(ctx, bookID, user)
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("expected saved=true")
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected one reading-list entry, got %d", len(store.entries))
	}
	entry := store.entries[0]
	if entry.BookID == nil || *entry.BookID != bookID || entry.Title != "Dune" {
		t.Errorf("entry did not copy book fields: %+v", entry)
	}

	saved, err = svc.ToggleSave(ctx, bookID, user)
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Fatal("expected saved=false on second toggle")
	}
	if len(store.entries) != 0 {
		t.Fatalf("expected reading list emptied, got %d entries", len(store.entries))
	}
	if len(store.books[bookID].Saves) != 0 {
		t.Error("saves array not emptied")
	}
}

func TestAddComment(t *testing.T) {
	store := newFakeInteractionStore()
	svc := NewInteractionService(store)
	svc.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	bookID := store.addBook("Dune")
	withAvatar := store.addUser("alice", "https://storage.test/alice.png")
	withoutAvatar := store.addUser("nina", "")

	comment, err := svc.AddComment(ctx, bookID, withAvatar, "  great read  ")
	if err != nil {
		t.Fatal(err)
	}
	if comment.Text != "great read" {
		t.Errorf("text = %q", comment.Text)
	}
	if comment.UserAvatar != "https://storage.test/alice.png" {
		t.Errorf("avatar = %q, want profile image", comment.UserAvatar)
	}
	if comment.Timestamp != svc.Now() {
		t.Error("timestamp not server-assigned")
	}

	comment, err = svc.AddComment(ctx, bookID, withoutAvatar, "me too")
	if err != nil {
		t.Fatal(err)
	}
	if comment.UserAvatar != utils.DefaultAvatar("nina") {
		t.Errorf("avatar = %q, want default for nina", comment.UserAvatar)
	}
	if got := len(store.books[bookID].Comments); got != 2 {
		t.Errorf("comments stored = %d, want 2", got)
	}

	if _, err := svc.AddComment(ctx, bookID, withAvatar, "   "); err == nil {
		t.Error("blank comment accepted")
	}
	_, err = svc.AddComment(ctx, primitive.NewObjectID(), withAvatar, "hello")
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Errorf("expected NotFoundError for missing book, got %v", err)
	}
}
