package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/petermazzocco/picture-picker/internal/config"
	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Store is the persistence layer for users, albums, photos and votes.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database selected by cfg.Type.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Type == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps :memory: databases and PRAGMAs shared.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// Migrate creates or updates the schema, including the unique
// (photo_id, user_id) index on votes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Album{}, &models.Photo{}, &models.Vote{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

// Users

// UpsertUserByEmail returns the user with the given email, creating it on first login.
func (s *Store) UpsertUserByEmail(ctx context.Context, name, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}

	user = models.User{Name: name, Email: email}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", translate(err))
	}
	return &user, nil
}

func (s *Store) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("finding user %d: %w", id, translate(err))
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("finding user by email: %w", translate(err))
	}
	return &user, nil
}

// Albums

func orderPhotos(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

func orderVotes(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (s *Store) CreateAlbum(ctx context.Context, album *models.Album) error {
	if err := s.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("creating album: %w", translate(err))
	}
	return nil
}

// ListAlbums returns the albums userID created or was shared, newest first,
// with their creator and photo count. Photos are not loaded.
func (s *Store) ListAlbums(ctx context.Context, userID uint) ([]models.Album, error) {
	db := s.db.WithContext(ctx)
	shared := db.Table("album_shares").Select("album_id").Where("user_id = ?", userID)

	var albums []models.Album
	err := db.
		Select("albums.*, (SELECT COUNT(*) FROM photos WHERE photos.album_id = albums.id) AS photo_count").
		Preload("Creator").
		Where("albums.creator_id = ? OR albums.id IN (?)", userID, shared).
		Order("albums.created_at DESC, albums.id DESC").
		Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}
	return albums, nil
}

// FindAlbum loads an album with its creator, shared users, and photos in
// upload order with their votes.
func (s *Store) FindAlbum(ctx context.Context, id uint) (*models.Album, error) {
	var album models.Album
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("SharedWith").
		Preload("Photos", orderPhotos).
		Preload("Photos.Votes", orderVotes).
		First(&album, id).Error
	if err != nil {
		return nil, fmt.Errorf("finding album %d: %w", id, translate(err))
	}
	album.PhotoCount = len(album.Photos)
	return &album, nil
}

// ShareAlbum grants user access to album. Sharing twice is a no-op.
func (s *Store) ShareAlbum(ctx context.Context, album *models.Album, user *models.User) error {
	if err := s.db.WithContext(ctx).Model(album).Association("SharedWith").Append(user); err != nil {
		return fmt.Errorf("sharing album %d: %w", album.ID, translate(err))
	}
	return nil
}

// Photos

func (s *Store) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		return fmt.Errorf("creating photo: %w", translate(err))
	}
	return nil
}

// FindPhoto loads a photo with its votes and its album's access list.
func (s *Store) FindPhoto(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).
		Preload("Votes", orderVotes).
		Preload("Album").
		Preload("Album.SharedWith").
		First(&photo, id).Error
	if err != nil {
		return nil, fmt.Errorf("finding photo %d: %w", id, translate(err))
	}
	return &photo, nil
}

// Votes

var _ ranking.VoteStore = (*Store)(nil)

func (s *Store) FindPhotoWithVotes(ctx context.Context, photoID uint) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Preload("Votes", orderVotes).First(&photo, photoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding photo %d: %w", photoID, err)
	}
	return &photo, nil
}

func (s *Store) FindVote(ctx context.Context, photoID, userID uint) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("photo_id = ? AND user_id = ?", photoID, userID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding vote: %w", err)
	}
	return &vote, nil
}

func (s *Store) CreateVote(ctx context.Context, vote *models.Vote) error {
	err := s.db.WithContext(ctx).Create(vote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ranking.ErrVoteConflict
	}
	return err
}

func (s *Store) UpdateVote(ctx context.Context, voteID uint, value int) error {
	res := s.db.WithContext(ctx).Model(&models.Vote{}).Where("id = ?", voteID).Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vote %d: %w", voteID, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteVote(ctx context.Context, voteID uint) error {
	return s.db.WithContext(ctx).Delete(&models.Vote{}, voteID).Error
}

// Transaction runs fn with a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx ranking.VoteStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
