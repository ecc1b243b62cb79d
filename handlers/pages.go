package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfshare/shelfshare/config"
	"github.com/shelfshare/shelfshare/errs"
	"github.com/shelfshare/shelfshare/middleware"
	"github.com/shelfshare/shelfshare/models"
	"github.com/shelfshare/shelfshare/service"
	"github.com/shelfshare/shelfshare/store"
	"github.com/shelfshare/shelfshare/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const publicBooksLimit = 50

type PagesHandler struct {
	DB        *store.DB
	Catalog   *service.OpenLibraryClient
	Templates *templates.Manager
	Shelf     *config.ShelfData
}

type homePage struct {
	User  *models.SessionUser
	Data  *config.ShelfData
	Books []models.Book
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := homePage{Data: h.Shelf}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		page.User = &user
	}
	books, err := h.DB.PublicBooks(r.Context(), publicBooksLimit)
	if err != nil {
		log.Printf("home: public books failed: %v", err)
	} else {
		page.Books = books
	}
	h.Templates.RenderTo(w, http.StatusOK, "index.html", page)
}

type searchPage struct {
	User        *models.SessionUser
	Title       string
	Books       []service.CatalogBook
	RandomBooks []service.CatalogBook
}

// Search renders the catalog page: the title query's matches plus the
// spotlight shelf.
func (h *PagesHandler) Search(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	result, err := h.Catalog.SearchCatalog(r.Context(), title)
	if err != nil {
		var ue *errs.UpstreamError
		if errors.As(err, &ue) {
			log.Printf("catalog search failed: %v", err)
		}
		http.Error(w, "Error fetching books", http.StatusInternalServerError)
		return
	}

	page := searchPage{
		Title:       title,
		Books:       result.Matches,
		RandomBooks: result.Spotlight,
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		page.User = &user
	}
	h.Templates.RenderTo(w, http.StatusOK, "books.html", page)
}

type bookPage struct {
	User    *models.SessionUser
	Book    *models.Book
	Liked   bool
	Saved   bool
	Message string
}

// BookDetail renders one published book and counts the view.
func (h *PagesHandler) BookDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		log.Printf("book detail load failed: %v", err)
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.NotFound(w, r)
		return
	}

	page := bookPage{Book: book}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		page.User = &user
		page.Liked = book.LikedBy(user.ID)
		page.Saved = book.SavedBy(user.ID)
	}
	// Private books are visible only to their owner.
	if !book.IsPublic && (page.User == nil || page.User.ID != book.UserID) {
		http.NotFound(w, r)
		return
	}
	if err := h.DB.IncrementBookViews(r.Context(), id); err != nil {
		log.Printf("view count failed: %v", err)
	} else {
		book.Views++
	}
	h.Templates.RenderTo(w, http.StatusOK, "book.html", page)
}

// PublicBooks answers the JSON shelf of publicly visible books.
func (h *PagesHandler) PublicBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.PublicBooks(r.Context(), publicBooksLimit)
	if err != nil {
		log.Printf("public books failed: %v", err)
		jsonError(w, "Server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "books": books})
}
