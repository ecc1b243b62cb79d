package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/store"
	"github.com/shelfshare/shelfshare/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReadingListHandler struct {
	DB        *store.DB
	Templates *templates.Manager
}

type readingListPage struct {
	User  *models.SessionUser
	Books []models.ReadingListEntry
}

func (h *ReadingListHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	entries, err := h.DB.ReadingList(r.Context(), user.ID)
	if err != nil {
		log.Printf("reading list load failed: %v", err)
		http.Error(w, "Failed to fetch reading list", http.StatusInternalServerError)
		return
	}
	h.Templates.RenderTo(w, http.StatusOK, "readingList.html", readingListPage{User: &user, Books: entries})
}

// Add inserts a denormalized entry from the catalog page form. Catalog
// records carry no stable book id, so those entries are keyed by title.
func (h *ReadingListHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to add book.", http.StatusBadRequest)
		return
	}

	entry := &models.ReadingListEntry{
		UserID:      user.ID,
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Author:      r.PostFormValue("author"),
		CoverImage:  r.PostFormValue("coverImage"),
		PublishDate: strings.TrimSpace(r.PostFormValue("publishDate")),
		Description: r.PostFormValue("description"),
		PDFLink:     r.PostFormValue("pdfLink"),
		CreatedAt:   time.Now(),
	}
	if idStr := r.PostFormValue("bookId"); idStr != "" {
		if id, err := primitive.ObjectIDFromHex(idStr); err == nil {
			entry.BookID = &id
		}
	}
	if entry.Title == "" {
		http.Error(w, "Failed to add book.", http.StatusBadRequest)
		return
	}

	if err := h.DB.UpsertReadingListEntry(r.Context(), entry); err != nil {
		log.Printf("reading list add failed: %v", err)
		http.Error(w, "Failed to add book.", http.StatusInternalServerError)
		return
	}
	log.Printf("book added to reading list: %s", entry.Title)
	http.Redirect(w, r, "/readingList", http.StatusSeeOther)
}

// Remove deletes by title; legacy entries have no book id to address.
func (h *ReadingListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to remove book.", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	if err := h.DB.DeleteReadingListEntryByTitle(r.Context(), user.ID, title); err != nil {
		log.Printf("reading list remove failed: %v", err)
		http.Error(w, "Failed to remove book.", http.StatusInternalServerError)
		return
	}
	log.Printf("book removed from reading list: %s", title)
	http.Redirect(w, r, "/readingList", http.StatusSeeOther)
}
