package games

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

const (
	// DefaultStartIndex is the page number used when the caller omits one.
	DefaultStartIndex = 0
	// DefaultItemsPerPage is the page size used when the caller omits one.
	DefaultItemsPerPage = 10
	// DefaultMaxItemsPerPage caps page sizes when no explicit cap is configured.
	DefaultMaxItemsPerPage = 100
)

// Store defines the contract for persisting and retrieving games.
type Store interface {
	FindByID(ctx context.Context, id string) (domaingames.Game, bool, error)
	// Insert fails with domaingames.ErrDuplicateID when the id is taken.
	Insert(ctx context.Context, game domaingames.Game) (domaingames.Game, error)
	Save(ctx context.Context, game domaingames.Game) (domaingames.Game, error)
	Delete(ctx context.Context, game domaingames.Game) error
	// FindAll returns one zero-based page in creation order plus the total count.
	FindAll(ctx context.Context, page, size int) ([]domaingames.Game, int64, error)
}

// Directory supplies the authorised developer list.
type Directory interface {
	AuthorisedDevelopers(ctx context.Context) ([]domaingames.Developer, error)
}

// Service coordinates validation, developer authorisation and persistence.
type Service struct {
	store           Store
	directory       Directory
	maxItemsPerPage int
	newID           func() string
}

// NewService constructs a Service. A non-positive maxItemsPerPage falls back to DefaultMaxItemsPerPage.
func NewService(store Store, directory Directory, maxItemsPerPage int) *Service {
	if maxItemsPerPage <= 0 {
		maxItemsPerPage = DefaultMaxItemsPerPage
	}
	return &Service{
		store:           store,
		directory:       directory,
		maxItemsPerPage: maxItemsPerPage,
		newID:           uuid.NewString,
	}
}

// GetByID returns a single game.
func (s *Service) GetByID(ctx context.Context, id string) (domaingames.Game, error) {
	const op = "get game"
	game, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domaingames.Game{}, serviceError(op, fmt.Errorf("retrieve game with id %s: %w", id, err))
	}
	if !ok {
		return domaingames.Game{}, notFoundError(op, id)
	}
	return game, nil
}

// CreateGame validates and authorises a new game, assigns it a fresh id and stores it.
func (s *Service) CreateGame(ctx context.Context, game domaingames.Game, developer string) (domaingames.Game, error) {
	const op = "create game"
	if errs := Validate(game); len(errs) > 0 {
		return domaingames.Game{}, validationError(op, errs)
	}
	if strings.TrimSpace(developer) == "" {
		return domaingames.Game{}, unauthorisedError(op, "developer header required")
	}
	authorised, err := s.isAuthorised(ctx, developer)
	if err != nil {
		return domaingames.Game{}, serviceError(op, fmt.Errorf("retrieve authorised developers: %w", err))
	}
	if !authorised {
		return domaingames.Game{}, unauthorisedError(op, "developer not authorised to create games")
	}
	if !domaingames.SameDeveloper(developer, game.Developer) {
		return domaingames.Game{}, unauthorisedError(op, "developer creating the game is not the developer of the game")
	}

	game.ID = s.newID()
	created, err := s.store.Insert(ctx, game)
	if err != nil {
		if errors.Is(err, domaingames.ErrDuplicateID) {
			return domaingames.Game{}, conflictError(op, err)
		}
		return domaingames.Game{}, serviceError(op, fmt.Errorf("insert game %q: %w", game.Title, err))
	}
	return created, nil
}

// ListAllGames returns one page of games. Both arguments arrive as raw query strings;
// blank values take the defaults and oversized pages are clamped.
func (s *Service) ListAllGames(ctx context.Context, startIndex, itemsPerPage string) (domaingames.Page, error) {
	const op = "list games"
	page, size, errs := s.parsePaging(startIndex, itemsPerPage)
	if len(errs) > 0 {
		return domaingames.Page{}, validationError(op, errs)
	}

	items, total, err := s.store.FindAll(ctx, page, size)
	if err != nil {
		return domaingames.Page{}, serviceError(op, fmt.Errorf("retrieve page %d: %w", page, err))
	}
	return domaingames.NewPage(page, size, total, items), nil
}

// UpdateGame replaces an existing game. Only the developer recorded on the stored game may update it;
// the id in the payload is ignored.
func (s *Service) UpdateGame(ctx context.Context, game domaingames.Game, id, developer string) error {
	const op = "update game"
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if errs := Validate(game); len(errs) > 0 {
		return validationError(op, errs)
	}
	if !domaingames.SameDeveloper(developer, existing.Developer) {
		return unauthorisedError(op, "developer not authorised to update this game")
	}

	game.ID = existing.ID
	if _, err := s.store.Save(ctx, game); err != nil {
		return serviceError(op, fmt.Errorf("save game with id %s: %w", id, err))
	}
	return nil
}

// DeleteGame removes a game. The existence check runs before authorisation.
func (s *Service) DeleteGame(ctx context.Context, id, developer string) error {
	const op = "delete game"
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domaingames.SameDeveloper(developer, existing.Developer) {
		return unauthorisedError(op, "developer not authorised to delete this game")
	}
	if err := s.store.Delete(ctx, existing); err != nil {
		return serviceError(op, fmt.Errorf("delete game with id %s: %w", id, err))
	}
	return nil
}

// MaxItemsPerPage reports the configured page size cap.
func (s *Service) MaxItemsPerPage() int {
	return s.maxItemsPerPage
}

func (s *Service) isAuthorised(ctx context.Context, developer string) (bool, error) {
	if s.directory == nil {
		return false, errors.New("developer directory not configured")
	}
	devs, err := s.directory.AuthorisedDevelopers(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range devs {
		if domaingames.SameDeveloper(developer, d.Name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) parsePaging(startIndex, itemsPerPage string) (int, int, []string) {
	var errs []string

	page := DefaultStartIndex
	if raw := strings.TrimSpace(startIndex); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			errs = append(errs, "start-index must be a non-negative integer")
		} else {
			page = v
		}
	}

	size := DefaultItemsPerPage
	if raw := strings.TrimSpace(itemsPerPage); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			errs = append(errs, "items-per-page must be a positive integer")
		} else {
			size = v
		}
	}
	if size > s.maxItemsPerPage {
		size = s.maxItemsPerPage
	}
	return page, size, errs
}
