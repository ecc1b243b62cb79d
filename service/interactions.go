package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InteractionStore is the persistence capability for like/save/comment
// toggles. The push/pull operations are atomic add-if-absent and
// remove-if-present on the book document, which is what keeps concurrent
// toggles by different users from losing each other's writes.
type InteractionStore interface {
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	PushLikeIfAbsent(ctx context.Context, bookID primitive.ObjectID, like models.Like) (bool, error)
	PullLike(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error)
	PushSaveIfAbsent(ctx context.Context, bookID primitive.ObjectID, save models.Save) (bool, error)
	PullSave(ctx context.Context, bookID, userID primitive.ObjectID) (bool, error)
	PushComment(ctx context.Context, bookID primitive.ObjectID, comment models.Comment) error
	LikesCount(ctx context.Context, bookID primitive.ObjectID) (int, error)
	UpsertReadingListEntry(ctx context.Context, entry *models.ReadingListEntry) error
	DeleteReadingListEntryByBook(ctx context.Context, userID, bookID primitive.ObjectID) error
}

type InteractionService struct {
	Store InteractionStore
	Now   func() time.Time
}

func NewInteractionService(store InteractionStore) *InteractionService {
	return &InteractionService{Store: store, Now: time.Now}
}

// ToggleLike adds the acting user's like entry, or removes it if one is
// already present. Repeating the call inverts it; a duplicate like from
// the same user can never produce a second entry.
func (s *InteractionService) ToggleLike(ctx context.Context, bookID primitive.ObjectID, user models.SessionUser) (liked bool, count int, err error) {
	like := models.Like{UserID: user.ID, Username: user.Username, Timestamp: s.Now()}
	pushed, err := s.Store.PushLikeIfAbsent(ctx, bookID, like)
	if err != nil {
		return false, 0, &errs.PersistenceError{Op: "push like", Err: err}
	}
	if !pushed {
		// Either the entry already exists or the book is gone; the pull
		// settles which.
		if _, err := s.Store.PullLike(ctx, bookID, user.ID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return false, 0, &errs.NotFoundError{Resource: "book"}
			}
			return false, 0, &errs.PersistenceError{Op: "pull like", Err: err}
		}
	}
	count, err = s.Store.LikesCount(ctx, bookID)
	if err != nil {
		return false, 0, &errs.PersistenceError{Op: "count likes", Err: err}
	}
	return pushed, count, nil
}

// ToggleSave mirrors ToggleLike on the saves array and additionally keeps
// the reading-list projection in step: a save inserts a denormalized entry,
// an unsave deletes it by (user, book). The two writes are independent;
// the book document is the source of truth and the projection tolerates a
// missing or duplicate row.
func (s *InteractionService) ToggleSave(ctx context.Context, bookID primitive.ObjectID, user models.SessionUser) (saved bool, err error) {
	book, err := s.Store.BookByID(ctx, bookID)
	if err != nil {
		return false, &errs.PersistenceError{Op: "load book", Err: err}
	}
	if book == nil {
		return false, &errs.NotFoundError{Resource: "book"}
	}

	save := models.Save{UserID: user.ID, Timestamp: s.Now()}
	pushed, err := s.Store.PushSaveIfAbsent(ctx, bookID, save)
	if err != nil {
		return false, &errs.PersistenceError{Op: "push save", Err: err}
	}
	if pushed {
		entry := &models.ReadingListEntry{
			UserID:      user.ID,
			BookID:      &bookID,
			Title:       book.Title,
			Author:      book.Author,
			CoverImage:  book.CoverImage,
			PublishDate: book.PublicationDate,
			Description: book.Description,
			PDFLink:     book.PDFFile,
			CreatedAt:   save.Timestamp,
		}
		if err := s.Store.UpsertReadingListEntry(ctx, entry); err != nil {
			return false, &errs.PersistenceError{Op: "insert reading-list entry", Err: err}
		}
		return true, nil
	}

	if _, err := s.Store.PullSave(ctx, bookID, user.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, &errs.NotFoundError{Resource: "book"}
		}
		return false, &errs.PersistenceError{Op: "pull save", Err: err}
	}
	if err := s.Store.DeleteReadingListEntryByBook(ctx, user.ID, bookID); err != nil {
		return false, &errs.PersistenceError{Op: "delete reading-list entry", Err: err}
	}
	return false, nil
}

// AddComment appends a comment with a server-assigned timestamp. The
// commenter's display name and avatar are resolved at append time, falling
// back to the default avatar when no profile image is set.
func (s *InteractionService) AddComment(ctx context.Context, bookID, userID primitive.ObjectID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.Validation("Comment text is required.")
	}
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return nil, &errs.PersistenceError{Op: "load user", Err: err}
	}
	if user == nil {
		return nil, &errs.NotFoundError{Resource: "user"}
	}
	avatar := user.ProfileImage
	if avatar == "" {
		avatar = utils.DefaultAvatar(user.Username)
	}
	comment := models.Comment{
		UserID:     user.ID,
		Username:   user.Username,
		UserAvatar: avatar,
		Text:       text,
		Timestamp:  s.Now(),
	}
	if err := s.Store.PushComment(ctx, bookID, comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &errs.NotFoundError{Resource: "book"}
		}
		return nil, &errs.PersistenceError{Op: "push comment", Err: err}
	}
	return &comment, nil
}
