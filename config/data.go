package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
)

// ShelfData is the optional static content blob rendered on the home page.
// Loaded once at startup; read-only afterwards.
type ShelfData struct {
	WelcomeCards []ShelfCard `json:"welcomeCards"`
	OfferCards   []ShelfCard `json:"offerCards"`
	Suggestions  []ShelfCard `json:"suggestions"`
}

type ShelfCard struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
}

// LoadShelfData reads the shelf blob from path. A missing file is not an
// error; the home page just renders without the static shelves.
func LoadShelfData(path string) (*ShelfData, error) {
	if path == "" {
		return &ShelfData{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("shelf data %s not found, using defaults", path)
			return &ShelfData{}, nil
		}
		return nil, err
	}
	var data ShelfData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	log.Printf("shelf data loaded from %s", path)
	return &data, nil
}
