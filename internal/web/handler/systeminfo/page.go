package systeminfo

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	store "github.com/GoPowerDNS-Admin/systeminfo/internal/db/controller/systeminfo"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/handler"
)

const (
	// DefaultPageSize is the default number of entries per page.
	DefaultPageSize = 25

	maxPageSize = 100
)

// PageData represents the data passed to the template.
type PageData struct {
	Title       string
	Entries     []Entry
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	SearchQuery string
}

// Page renders the overview of all entries, filtered by ?search= and paginated.
func (s *Service) Page(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), defaultTimeout)
	defer cancel()

	sess, err := s.session()
	if err != nil {
		return err
	}
	defer closeSession(sess)

	stored, err := store.List(ctx, sess)
	if err != nil {
		log.Error().Err(err).Msg("failed to list system info")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
			"Title": s.cfg.Title,
			"Error": "Failed to load system info",
		}, handler.BaseLayout)
	}

	page, pageSize := paginationParams(c)
	search := c.Query("search")

	entries := make([]Entry, 0, len(stored))
	for i := range stored {
		e := Entry{Key: stored[i].Key, Value: stored[i].StringValue()}
		if matches(e, search) {
			entries = append(entries, e)
		}
	}

	totalItems := len(entries)
	totalPages, page := totalPagesAndAdjust(totalItems, pageSize, page)
	start, end := pageBounds(totalItems, pageSize, page)

	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"Data": PageData{
			Title:       s.cfg.Title,
			Entries:     entries[start:end],
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			HasPrevPage: page > 1,
			HasNextPage: page < totalPages,
			PrevPage:    page - 1,
			NextPage:    page + 1,
			SearchQuery: search,
		},
	}, handler.BaseLayout)
}

// paginationParams parses and normalizes the page and pageSize query parameters.
func paginationParams(c fiber.Ctx) (int, int) {
	page := fiber.Query[int](c, "page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := fiber.Query[int](c, "pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = DefaultPageSize
	}

	return page, pageSize
}

// matches reports whether key or value contain search, ignoring case.
func matches(e Entry, search string) bool {
	if search == "" {
		return true
	}

	search = strings.ToLower(search)

	return strings.Contains(strings.ToLower(e.Key), search) ||
		strings.Contains(strings.ToLower(e.Value), search)
}

// totalPagesAndAdjust computes the number of pages and moves page into range.
func totalPagesAndAdjust(totalItems, pageSize, page int) (int, int) {
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	return totalPages, page
}

// pageBounds returns the slice bounds of page.
func pageBounds(totalItems, pageSize, page int) (int, int) {
	start := min(max((page-1)*pageSize, 0), totalItems)
	end := min(start+pageSize, totalItems)

	return start, end
}
