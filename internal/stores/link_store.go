package stores

import (
	"context"
	"strings"

	"url-shrinker/internal/interfaces"
	"url-shrinker/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const linkColumns = "url_id, full_url, short_url, clicks, created_at, user_id, username"

// Sortable columns of a link listing.
const (
	SortByClicks    = "clicks"
	SortByCreatedAt = "created_at"
)

// SortField is one ORDER BY term. Column must be one of the SortBy constants.
type SortField struct {
	Column     string
	Descending bool
}

// ParseSort builds the sort of a listing from the sortClicks and sortDate query values.
// Only "asc" and "desc" are honoured, clicks sort before creation time.
func ParseSort(sortClicks, sortDate string) []SortField {
	var sort []SortField
	for _, p := range []struct{ column, value string }{
		{SortByClicks, sortClicks},
		{SortByCreatedAt, sortDate},
	} {
		switch p.value {
		case "asc":
			sort = append(sort, SortField{Column: p.column})
		case "desc":
			sort = append(sort, SortField{Column: p.column, Descending: true})
		}
	}
	return sort
}

func orderBy(sort []SortField) string {
	terms := make([]string, 0, len(sort)+1)
	byCreatedAt := false
	for _, field := range sort {
		if field.Column != SortByClicks && field.Column != SortByCreatedAt {
			continue
		}
		direction := " ASC"
		if field.Descending {
			direction = " DESC"
		}
		terms = append(terms, field.Column+direction)
		byCreatedAt = byCreatedAt || field.Column == SortByCreatedAt
	}
	// insertion order as tie breaker
	if !byCreatedAt {
		terms = append(terms, "created_at ASC")
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

type LinkStore struct {
	db interfaces.Querier
}

func NewLinkStore(db interfaces.Querier) *LinkStore {
	return &LinkStore{db: db}
}

func (s *LinkStore) WithTx(tx pgx.Tx) *LinkStore {
	return &LinkStore{db: tx}
}

func scanLink(row pgx.Row) (*schemas.Link, error) {
	link := &schemas.Link{}
	err := row.Scan(&link.ID, &link.FullUrl, &link.ShortUrl, &link.Clicks, &link.CreatedAt, &link.UserID, &link.Username)
	if err != nil {
		return nil, mapError(err)
	}
	return link, nil
}

func (s *LinkStore) Insert(ctx context.Context, link *schemas.Link) error {
	queryString := "INSERT INTO urls (" + linkColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7)"
	_, err := s.db.Exec(ctx, queryString, link.ID, link.FullUrl, link.ShortUrl, link.Clicks, link.CreatedAt, link.UserID, link.Username)
	return mapError(err)
}

func (s *LinkStore) FindByUserAndFullUrl(ctx context.Context, userId uuid.UUID, fullUrl string) (*schemas.Link, error) {
	queryString := "SELECT " + linkColumns + " FROM urls WHERE user_id = $1 AND full_url = $2"
	return scanLink(s.db.QueryRow(ctx, queryString, userId, fullUrl))
}

func (s *LinkStore) FindByShortUrl(ctx context.Context, shortUrl string) (*schemas.Link, error) {
	queryString := "SELECT " + linkColumns + " FROM urls WHERE short_url = $1"
	return scanLink(s.db.QueryRow(ctx, queryString, shortUrl))
}

// ListAll returns the links of every user, the admin view.
func (s *LinkStore) ListAll(ctx context.Context, sort []SortField) ([]*schemas.Link, error) {
	queryString := "SELECT " + linkColumns + " FROM urls" + orderBy(sort)
	return s.list(ctx, queryString)
}

func (s *LinkStore) ListByUser(ctx context.Context, userId uuid.UUID, sort []SortField) ([]*schemas.Link, error) {
	queryString := "SELECT " + linkColumns + " FROM urls WHERE user_id = $1" + orderBy(sort)
	return s.list(ctx, queryString, userId)
}

func (s *LinkStore) list(ctx context.Context, queryString string, args ...interface{}) ([]*schemas.Link, error) {
	rows, err := s.db.Query(ctx, queryString, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	links := make([]*schemas.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return links, nil
}

// IncrementClicks counts one redirect of shortUrl, atomically in the database.
func (s *LinkStore) IncrementClicks(ctx context.Context, shortUrl string) error {
	queryString := "UPDATE urls SET clicks = clicks + 1 WHERE short_url = $1"
	tag, err := s.db.Exec(ctx, queryString, shortUrl)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
