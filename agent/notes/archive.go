package notes

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type ResearchNote struct {
	bun.BaseModel `bun:"table:research_notes,alias:rn"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Topic     string    `bun:"topic,notnull"`
	Content   string    `bun:"content,notnull"`
	Sources   []string  `bun:"sources,array"`
	FilePath  string    `bun:"file_path"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

// ExtractSources returns the distinct URLs mentioned in content, in order.
func ExtractSources(content string) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range urlPattern.FindAllString(content, -1) {
		u = strings.TrimRight(u, ".,;:")
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

// PostgresArchive keeps a queryable copy of every saved note.
type PostgresArchive struct {
	db *bun.DB
}

func OpenPostgresArchive(ctx context.Context, dsn string) (*PostgresArchive, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping notes database: %w", err)
	}
	a := &PostgresArchive{db: db}
	if err := a.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *PostgresArchive) migrate(ctx context.Context) error {
	_, err := a.db.NewCreateTable().
		Model((*ResearchNote)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create research_notes table: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Archive(ctx context.Context, note *ResearchNote) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if _, err := a.db.NewInsert().Model(note).Exec(ctx); err != nil {
		return fmt.Errorf("insert research note: %w", err)
	}
	return nil
}

// Recent returns the newest n notes, newest first.
func (a *PostgresArchive) Recent(ctx context.Context, n int) ([]ResearchNote, error) {
	if n <= 0 {
		n = 10
	}
	var notes []ResearchNote
	err := a.db.NewSelect().
		Model(&notes).
		Order("created_at DESC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select research notes: %w", err)
	}
	return notes, nil
}

func (a *PostgresArchive) Close() error {
	return a.db.Close()
}
