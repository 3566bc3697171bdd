package movies

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"theater/src/modules/events"
	lib "theater/src/modules/movies/lib"
	models "theater/src/modules/movies/models"
	"theater/src/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	msgNoMovies      = "No movies found."
	msgMovieNotFound = "Movie with the given ID was not found."
)

// MovieService owns every read and write of movies. Each write runs in a
// single transaction; cache invalidation and change events follow the commit.
type MovieService struct {
	db        *gorm.DB
	cache     *MovieCache
	publisher events.Publisher
	log       logrus.FieldLogger
	listPath  string
}

// NewMovieService builds the service. cache and publisher may be nil;
// listPath is the URL that prev/next page links point at.
func NewMovieService(db *gorm.DB, cache *MovieCache, publisher events.Publisher, log logrus.FieldLogger, listPath string) *MovieService {
	return &MovieService{
		db:        db,
		cache:     cache,
		publisher: publisher,
		log:       log,
		listPath:  listPath,
	}
}

// List returns one page of movies, newest id first. An empty page is NotFound.
func (s *MovieService) List(ctx context.Context, page, perPage int) (*lib.MovieListResponse, error) {
	cacheName := fmt.Sprintf("list:%d:%d", page, perPage)
	var cached lib.MovieListResponse
	version, hit := s.cache.Get(ctx, cacheName, &cached)
	if hit {
		return &cached, nil
	}

	var (
		items []models.Movie
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hydrate(s.db.WithContext(gctx)).
			Order("id DESC").
			Offset(utils.CalculateOffset(page, perPage)).
			Limit(perPage).
			Find(&items).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Movie{}).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	if len(items) == 0 {
		return nil, utils.NewNotFound(msgNoMovies)
	}

	p := utils.Paginate(total, page, perPage)
	res := &lib.MovieListResponse{
		Movies:     items,
		PrevPage:   utils.PageLink(s.listPath, p.PrevPage, perPage),
		NextPage:   utils.PageLink(s.listPath, p.NextPage, perPage),
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
	}
	s.cache.Set(ctx, version, cacheName, res)
	return res, nil
}

// Create inserts a movie and get-or-creates its related rows.
func (s *MovieService) Create(ctx context.Context, req lib.MovieCreateRequest) (*models.Movie, error) {
	var created *models.Movie
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, req.Name, req.Date); err != nil {
			return err
		}

		genres, err := resolveGenres(tx, req.Genres)
		if err != nil {
			return err
		}
		actors, err := resolveActors(tx, req.Actors)
		if err != nil {
			return err
		}
		languages, err := resolveLanguages(tx, req.Languages)
		if err != nil {
			return err
		}
		country, err := resolveCountry(tx, req.Country)
		if err != nil {
			return err
		}

		movie := models.Movie{
			Name:      req.Name,
			Date:      req.Date,
			Score:     deref(req.Score),
			Overview:  deref(req.Overview),
			Status:    req.Status,
			Budget:    deref(req.Budget),
			Revenue:   deref(req.Revenue),
			CountryID: country.ID,
			Genres:    genres,
			Actors:    actors,
			Languages: languages,
		}
		// Related rows already exist; only the join rows are written here.
		err = tx.Omit("Country", "Genres.*", "Actors.*", "Languages.*").Create(&movie).Error
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return duplicateError(req.Name, req.Date)
			}
			return fmt.Errorf("failed to create movie: %w", err)
		}

		created, err = fetch(tx, movie.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.MovieCreated, created)
	return created, nil
}

func (s *MovieService) GetByID(ctx context.Context, id uint) (*models.Movie, error) {
	cacheName := "detail:" + strconv.FormatUint(uint64(id), 10)
	var cached models.Movie
	version, hit := s.cache.Get(ctx, cacheName, &cached)
	if hit {
		return &cached, nil
	}

	movie, err := fetch(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, version, cacheName, movie)
	return movie, nil
}

// Update applies only the fields present in req.
func (s *MovieService) Update(ctx context.Context, id uint, req lib.MovieUpdateRequest) (*models.Movie, error) {
	var updated *models.Movie
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie models.Movie
		if err := tx.First(&movie, id).Error; err != nil {
			return notFound(id, err)
		}

		if changes := req.Changes(); len(changes) > 0 {
			if err := tx.Model(&movie).Updates(changes).Error; err != nil {
				if utils.IsUniqueViolation(err) {
					name, date := movie.Name, movie.Date
					if req.Name != nil {
						name = *req.Name
					}
					if req.Date != nil {
						date = *req.Date
					}
					return duplicateError(name, date)
				}
				return fmt.Errorf("failed to update movie %d: %w", id, err)
			}
		}

		var err error
		updated, err = fetch(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.MovieUpdated, updated)
	return updated, nil
}

// DeleteByID removes the movie and its join rows. Shared related rows stay.
func (s *MovieService) DeleteByID(ctx context.Context, id uint) error {
	var deleted models.Movie
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			return notFound(id, err)
		}
		for _, rel := range models.ManyToMany {
			if err := tx.Model(&deleted).Association(rel).Clear(); err != nil {
				return fmt.Errorf("failed to unlink %s of movie %d: %w", rel, id, err)
			}
		}
		if err := tx.Delete(&deleted).Error; err != nil {
			return fmt.Errorf("failed to delete movie %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx, events.MovieDeleted, &deleted)
	return nil
}

// Walk streams every movie, hydrated, in id order and in batches of size.
func (s *MovieService) Walk(ctx context.Context, size int, fn func([]models.Movie) error) error {
	if size <= 0 {
		size = 100
	}

	var lastID uint
	for {
		var batch []models.Movie
		err := hydrate(s.db.WithContext(ctx)).
			Where("id > ?", lastID).
			Order("id").
			Limit(size).
			Find(&batch).Error
		if err != nil {
			return fmt.Errorf("failed to read movies after id %d: %w", lastID, err)
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		lastID = batch[len(batch)-1].ID
	}
}

// afterWrite runs once a transaction has committed. Failures here are logged
// only: the write itself already succeeded.
func (s *MovieService) afterWrite(ctx context.Context, typ events.Type, movie *models.Movie) {
	ctx = context.WithoutCancel(ctx)
	log := s.log.WithFields(logrus.Fields{"event": typ, "movie_id": movie.ID})

	if err := s.cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("cache invalidation failed")
	}

	if s.publisher == nil {
		return
	}
	ev := events.MovieEvent{
		Type:    typ,
		MovieID: movie.ID,
		Name:    movie.Name,
		Date:    movie.Date.String(),
		At:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.WithError(err).Warn("movie event publish failed")
	}
}

func ensureUnique(tx *gorm.DB, name string, date models.Date) error {
	var count int64
	err := tx.Model(&models.Movie{}).
		Where("name = ? AND date = ?", name, date).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check movie uniqueness: %w", err)
	}
	if count > 0 {
		return duplicateError(name, date)
	}
	return nil
}

func fetch(tx *gorm.DB, id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := hydrate(tx).First(&movie, id).Error; err != nil {
		return nil, notFound(id, err)
	}
	return &movie, nil
}

func hydrate(tx *gorm.DB) *gorm.DB {
	tx = tx.Preload("Country")
	for _, rel := range models.ManyToMany {
		tx = tx.Preload(rel, orderByID)
	}
	return tx
}

func orderByID(tx *gorm.DB) *gorm.DB {
	return tx.Order("id")
}

func notFound(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFound(msgMovieNotFound)
	}
	return fmt.Errorf("failed to load movie %d: %w", id, err)
}

func duplicateError(name string, date models.Date) error {
	return utils.NewConflict(fmt.Sprintf(
		"A movie with the name '%s' and release date '%s' already exists.", name, date))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
