package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

const defaultSQLitePath = "data/games.db"

// gameRow is the relational shape of a game. Genres live in a JSON column.
type gameRow struct {
	ID          string  `gorm:"primaryKey;size:64"`
	Title       string  `gorm:"not null"`
	ReleaseDate *string `gorm:"size:10"`
	Genres      datatypes.JSON
	Developer   string    `gorm:"size:255;index;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (gameRow) TableName() string { return "games" }

// GormStore persists games through gorm (PostgreSQL or SQLite).
type GormStore struct {
	db *gorm.DB
}

// OpenGorm opens a database for the given driver ("postgres" or "sqlite") and migrates the games table.
// An empty sqlite DSN falls back to a local file under data/.
func OpenGorm(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		if dsn == "" {
			return nil, errors.New("postgres dsn required")
		}
		dialector = gpostgres.Open(dsn)
	case "sqlite":
		if dsn == "" {
			if err := os.MkdirAll(filepath.Dir(defaultSQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("ensure sqlite dir: %w", err)
			}
			dsn = "file:" + filepath.ToSlash(defaultSQLitePath)
		}
		if strings.HasPrefix(dsn, "sqlite:///") {
			dsn = "file:" + strings.TrimPrefix(dsn, "sqlite:///")
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an existing connection and migrates the games table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&gameRow{}); err != nil {
		return nil, fmt.Errorf("migrate games: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (domaingames.Game, bool, error) {
	var row gameRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domaingames.Game{}, false, nil
	}
	if err != nil {
		return domaingames.Game{}, false, err
	}
	game, err := row.toGame()
	if err != nil {
		return domaingames.Game{}, false, err
	}
	return game, true, nil
}

// Insert writes a new row. ON CONFLICT DO NOTHING keeps the check portable across dialects;
// zero affected rows means the id was taken.
func (s *GormStore) Insert(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	row, err := rowFromGame(game)
	if err != nil {
		return domaingames.Game{}, err
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return domaingames.Game{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domaingames.Game{}, fmt.Errorf("insert %s: %w", game.ID, domaingames.ErrDuplicateID)
	}
	return game, nil
}

func (s *GormStore) Save(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	row, err := rowFromGame(game)
	if err != nil {
		return domaingames.Game{}, err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "release_date", "genres", "developer", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return domaingames.Game{}, err
	}
	return game, nil
}

func (s *GormStore) Delete(ctx context.Context, game domaingames.Game) error {
	return s.db.WithContext(ctx).Where("id = ?", game.ID).Delete(&gameRow{}).Error
}

func (s *GormStore) FindAll(ctx context.Context, page, size int) ([]domaingames.Game, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&gameRow{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	start, end, ok := pageBounds(page, size, total)
	if !ok {
		return []domaingames.Game{}, total, nil
	}

	var rows []gameRow
	err := db.Order("created_at ASC").Order("id ASC").
		Offset(int(start)).Limit(int(end - start)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	games := make([]domaingames.Game, 0, len(rows))
	for _, row := range rows {
		g, err := row.toGame()
		if err != nil {
			return nil, 0, err
		}
		games = append(games, g)
	}
	return games, total, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func rowFromGame(g domaingames.Game) (gameRow, error) {
	row := gameRow{
		ID:        g.ID,
		Title:     g.Title,
		Developer: g.Developer,
	}
	if !g.ReleaseDate.IsZero() {
		date := g.ReleaseDate.String()
		row.ReleaseDate = &date
	}
	genres, err := json.Marshal(g.Genres)
	if err != nil {
		return gameRow{}, fmt.Errorf("encode genres: %w", err)
	}
	row.Genres = genres
	return row, nil
}

func (r gameRow) toGame() (domaingames.Game, error) {
	g := domaingames.Game{
		ID:        r.ID,
		Title:     r.Title,
		Developer: r.Developer,
	}
	if r.ReleaseDate != nil {
		date, err := domaingames.ParseReleaseDate(*r.ReleaseDate)
		if err != nil {
			return domaingames.Game{}, err
		}
		g.ReleaseDate = date
	}
	if len(r.Genres) > 0 {
		if err := json.Unmarshal(r.Genres, &g.Genres); err != nil {
			return domaingames.Game{}, fmt.Errorf("decode genres for %s: %w", r.ID, err)
		}
	}
	return g, nil
}
