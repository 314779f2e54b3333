package sql

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bcnelson/styla-directory/internal/domain"
	"github.com/bcnelson/styla-directory/internal/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to domain.ErrAlreadyExists.
func wrapUniqueError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, driver: s.driver}, nil
}

// Tx wraps a database transaction.
type Tx struct {
	tx     *sqlx.Tx
	driver string
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Close is a no-op for transactions (they should be committed or rolled back).
func (t *Tx) Close() error {
	return nil
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(db dbInterface) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// BeginTx is not supported within a transaction.
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}

// helper to get the correct database interface
type dbInterface interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ============================================
// API Keys
// ============================================

func createAPIKey(ctx context.Context, db dbInterface, key *domain.APIKey) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, created_at, last_used_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.CreatedAt, key.LastUsedAt)
	return err
}

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return createAPIKey(ctx, s.db, key)
}

func (t *Tx) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return createAPIKey(ctx, t.tx, key)
}

func getAPIKeyByHash(ctx context.Context, db dbInterface, keyHash string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := db.GetContext(ctx, &key,
		`SELECT id, name, key_hash, key_prefix, created_at, last_used_at FROM api_keys WHERE key_hash = $1`, keyHash)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &key, err
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return getAPIKeyByHash(ctx, s.db, keyHash)
}

func (t *Tx) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return getAPIKeyByHash(ctx, t.tx, keyHash)
}

func listAPIKeys(ctx context.Context, db dbInterface) ([]*domain.APIKey, error) {
	var keys []*domain.APIKey
	err := db.SelectContext(ctx, &keys,
		`SELECT id, name, key_hash, key_prefix, created_at, last_used_at FROM api_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return listAPIKeys(ctx, s.db)
}

func (t *Tx) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return listAPIKeys(ctx, t.tx)
}

func deleteAPIKey(ctx context.Context, db dbInterface, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	return deleteAPIKey(ctx, s.db, id)
}

func (t *Tx) DeleteAPIKey(ctx context.Context, id string) error {
	return deleteAPIKey(ctx, t.tx, id)
}

func updateAPIKeyLastUsed(ctx context.Context, db dbInterface, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	return updateAPIKeyLastUsed(ctx, s.db, id)
}

func (t *Tx) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	return updateAPIKeyLastUsed(ctx, t.tx, id)
}

func countAPIKeys(ctx context.Context, db dbInterface) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM api_keys`)
	return count, err
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	return countAPIKeys(ctx, s.db)
}

func (t *Tx) CountAPIKeys(ctx context.Context) (int, error) {
	return countAPIKeys(ctx, t.tx)
}

// ============================================
// Tags
// ============================================

const tagColumns = `id, name, display_name, category, type, parent_tag_id, usage_count, created_at, updated_at`

func createTag(ctx context.Context, db dbInterface, tag *domain.Tag) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO tags (`+tagColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tag.ID, tag.Name, tag.DisplayName, tag.Category, tag.Type, tag.ParentTagID,
		tag.UsageCount, tag.CreatedAt, tag.UpdatedAt)
	return wrapUniqueError(err)
}

func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return createTag(ctx, s.db, tag)
}

func (t *Tx) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return createTag(ctx, t.tx, tag)
}

func getTag(ctx context.Context, db dbInterface, id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := db.GetContext(ctx, &tag, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return getTag(ctx, s.db, id)
}

func (t *Tx) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return getTag(ctx, t.tx, id)
}

func selectTags(ctx context.Context, db dbInterface, where string, args ...any) ([]*domain.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY display_name, id`

	tags := make([]*domain.Tag, 0)
	if err := db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return selectTags(ctx, s.db, "")
}

func (t *Tx) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return selectTags(ctx, t.tx, "")
}

func (s *Store) ListTagsByType(ctx context.Context, tagType domain.TagType) ([]*domain.Tag, error) {
	return selectTags(ctx, s.db, "type = $1", tagType)
}

func (t *Tx) ListTagsByType(ctx context.Context, tagType domain.TagType) ([]*domain.Tag, error) {
	return selectTags(ctx, t.tx, "type = $1", tagType)
}

func (s *Store) ListTagsByCategory(ctx context.Context, c domain.Category) ([]*domain.Tag, error) {
	return selectTags(ctx, s.db, "category = $1", c)
}

func (t *Tx) ListTagsByCategory(ctx context.Context, c domain.Category) ([]*domain.Tag, error) {
	return selectTags(ctx, t.tx, "category = $1", c)
}

func (s *Store) ListTagsByParent(ctx context.Context, parentID string) ([]*domain.Tag, error) {
	return selectTags(ctx, s.db, "parent_tag_id = $1", parentID)
}

func (t *Tx) ListTagsByParent(ctx context.Context, parentID string) ([]*domain.Tag, error) {
	return selectTags(ctx, t.tx, "parent_tag_id = $1", parentID)
}

// adjustTagUsage clamps the result at zero.
func adjustTagUsage(ctx context.Context, db dbInterface, id string, delta int) error {
	result, err := db.ExecContext(ctx,
		`UPDATE tags SET
		   usage_count = CASE WHEN usage_count + $1 < 0 THEN 0 ELSE usage_count + $1 END,
		   updated_at = $2
		 WHERE id = $3`, delta, time.Now(), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) AdjustTagUsage(ctx context.Context, id string, delta int) error {
	return adjustTagUsage(ctx, s.db, id, delta)
}

func (t *Tx) AdjustTagUsage(ctx context.Context, id string, delta int) error {
	return adjustTagUsage(ctx, t.tx, id, delta)
}

func setTagUsage(ctx context.Context, db dbInterface, id string, count int) error {
	result, err := db.ExecContext(ctx,
		`UPDATE tags SET usage_count = $1, updated_at = $2 WHERE id = $3`, count, time.Now(), id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SetTagUsage(ctx context.Context, id string, count int) error {
	return setTagUsage(ctx, s.db, id, count)
}

func (t *Tx) SetTagUsage(ctx context.Context, id string, count int) error {
	return setTagUsage(ctx, t.tx, id, count)
}

// ============================================
// Owners
// ============================================

const ownerColumns = `id, business_name, first_name, last_name, bio, business_address,
	business_lat, business_long, customization_json, settings_json, favorites_json,
	created_at, updated_at`

type ownerRow struct {
	ID                string    `db:"id"`
	BusinessName      string    `db:"business_name"`
	FirstName         string    `db:"first_name"`
	LastName          string    `db:"last_name"`
	Bio               string    `db:"bio"`
	BusinessAddress   string    `db:"business_address"`
	BusinessLat       float64   `db:"business_lat"`
	BusinessLong      float64   `db:"business_long"`
	CustomizationJSON string    `db:"customization_json"`
	SettingsJSON      string    `db:"settings_json"`
	FavoritesJSON     string    `db:"favorites_json"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func ownerToRow(owner *domain.Owner) (*ownerRow, error) {
	customization, err := json.Marshal(owner.ProfileCustomization)
	if err != nil {
		return nil, fmt.Errorf("encoding profile customization: %w", err)
	}
	settings, err := json.Marshal(owner.Settings)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	favorites := owner.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	favs, err := json.Marshal(favorites)
	if err != nil {
		return nil, fmt.Errorf("encoding favorites: %w", err)
	}
	bp := owner.BusinessProfile
	return &ownerRow{
		ID:                owner.ID,
		BusinessName:      bp.BusinessName,
		FirstName:         bp.FirstName,
		LastName:          bp.LastName,
		Bio:               bp.Bio,
		BusinessAddress:   bp.BusinessAddress,
		BusinessLat:       bp.BusinessLat,
		BusinessLong:      bp.BusinessLong,
		CustomizationJSON: string(customization),
		SettingsJSON:      string(settings),
		FavoritesJSON:     string(favs),
		CreatedAt:         owner.CreatedAt,
		UpdatedAt:         owner.UpdatedAt,
	}, nil
}

func rowToOwner(ctx context.Context, db dbInterface, row *ownerRow) (*domain.Owner, error) {
	owner := &domain.Owner{
		ID: row.ID,
		BusinessProfile: domain.BusinessProfile{
			BusinessName:    row.BusinessName,
			FirstName:       row.FirstName,
			LastName:        row.LastName,
			Bio:             row.Bio,
			BusinessAddress: row.BusinessAddress,
			BusinessLat:     row.BusinessLat,
			BusinessLong:    row.BusinessLong,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.CustomizationJSON != "" {
		if err := json.Unmarshal([]byte(row.CustomizationJSON), &owner.ProfileCustomization); err != nil {
			return nil, fmt.Errorf("decoding profile customization for owner %s: %w", row.ID, err)
		}
	}
	if row.SettingsJSON != "" {
		if err := json.Unmarshal([]byte(row.SettingsJSON), &owner.Settings); err != nil {
			return nil, fmt.Errorf("decoding settings for owner %s: %w", row.ID, err)
		}
	}
	if row.FavoritesJSON != "" {
		if err := json.Unmarshal([]byte(row.FavoritesJSON), &owner.Favorites); err != nil {
			return nil, fmt.Errorf("decoding favorites for owner %s: %w", row.ID, err)
		}
	}

	tagIDs, err := getOwnerTagIDs(ctx, db, row.ID)
	if err != nil {
		return nil, err
	}
	owner.TagIDs = tagIDs
	return owner, nil
}

func getOwnerTagIDs(ctx context.Context, db dbInterface, ownerID string) ([]string, error) {
	ids := make([]string, 0)
	err := db.SelectContext(ctx, &ids,
		`SELECT tag_id FROM owner_tags WHERE owner_id = $1 ORDER BY seq`, ownerID)
	return ids, err
}

func insertOwnerTags(ctx context.Context, db dbInterface, ownerID string, tagIDs []string) error {
	for i, tagID := range tagIDs {
		_, err := db.ExecContext(ctx,
			`INSERT INTO owner_tags (owner_id, tag_id, seq) VALUES ($1, $2, $3)`, ownerID, tagID, i)
		if err != nil {
			return wrapUniqueError(err)
		}
	}
	return nil
}

func createOwner(ctx context.Context, db dbInterface, owner *domain.Owner) error {
	row, err := ownerToRow(owner)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO owners (`+ownerColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		row.ID, row.BusinessName, row.FirstName, row.LastName, row.Bio, row.BusinessAddress,
		row.BusinessLat, row.BusinessLong, row.CustomizationJSON, row.SettingsJSON, row.FavoritesJSON,
		row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return wrapUniqueError(err)
	}
	return insertOwnerTags(ctx, db, owner.ID, owner.TagIDs)
}

// CreateOwner inserts the owner row and its tag rows atomically.
func (s *Store) CreateOwner(ctx context.Context, owner *domain.Owner) error {
	return s.withTx(ctx, func(db dbInterface) error { return createOwner(ctx, db, owner) })
}

func (t *Tx) CreateOwner(ctx context.Context, owner *domain.Owner) error {
	return createOwner(ctx, t.tx, owner)
}

func getOwner(ctx context.Context, db dbInterface, id string) (*domain.Owner, error) {
	var row ownerRow
	err := db.GetContext(ctx, &row, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToOwner(ctx, db, &row)
}

func (s *Store) GetOwner(ctx context.Context, id string) (*domain.Owner, error) {
	return getOwner(ctx, s.db, id)
}

func (t *Tx) GetOwner(ctx context.Context, id string) (*domain.Owner, error) {
	return getOwner(ctx, t.tx, id)
}

func rowsToOwners(ctx context.Context, db dbInterface, rows []ownerRow) ([]*domain.Owner, error) {
	owners := make([]*domain.Owner, 0, len(rows))
	for i := range rows {
		owner, err := rowToOwner(ctx, db, &rows[i])
		if err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	return owners, nil
}

func listOwners(ctx context.Context, db dbInterface) ([]*domain.Owner, error) {
	var rows []ownerRow
	err := db.SelectContext(ctx, &rows,
		`SELECT `+ownerColumns+` FROM owners ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return rowsToOwners(ctx, db, rows)
}

func (s *Store) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	return listOwners(ctx, s.db)
}

func (t *Tx) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	return listOwners(ctx, t.tx)
}

func listOwnersByTag(ctx context.Context, db dbInterface, tagID string) ([]*domain.Owner, error) {
	var rows []ownerRow
	err := db.SelectContext(ctx, &rows,
		`SELECT `+ownerColumns+` FROM owners
		 WHERE id IN (SELECT owner_id FROM owner_tags WHERE tag_id = $1)
		 ORDER BY created_at, id`, tagID)
	if err != nil {
		return nil, err
	}
	return rowsToOwners(ctx, db, rows)
}

func (s *Store) ListOwnersByTag(ctx context.Context, tagID string) ([]*domain.Owner, error) {
	return listOwnersByTag(ctx, s.db, tagID)
}

func (t *Tx) ListOwnersByTag(ctx context.Context, tagID string) ([]*domain.Owner, error) {
	return listOwnersByTag(ctx, t.tx, tagID)
}

func updateOwner(ctx context.Context, db dbInterface, owner *domain.Owner) error {
	row, err := ownerToRow(owner)
	if err != nil {
		return err
	}
	result, err := db.ExecContext(ctx,
		`UPDATE owners SET business_name = $1, first_name = $2, last_name = $3, bio = $4,
		   business_address = $5, business_lat = $6, business_long = $7,
		   customization_json = $8, settings_json = $9, favorites_json = $10, updated_at = $11
		 WHERE id = $12`,
		row.BusinessName, row.FirstName, row.LastName, row.Bio, row.BusinessAddress,
		row.BusinessLat, row.BusinessLong, row.CustomizationJSON, row.SettingsJSON, row.FavoritesJSON,
		row.UpdatedAt, row.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM owner_tags WHERE owner_id = $1`, owner.ID); err != nil {
		return err
	}
	return insertOwnerTags(ctx, db, owner.ID, owner.TagIDs)
}

// UpdateOwner rewrites the owner row and replaces its tag rows atomically.
func (s *Store) UpdateOwner(ctx context.Context, owner *domain.Owner) error {
	return s.withTx(ctx, func(db dbInterface) error { return updateOwner(ctx, db, owner) })
}

func (t *Tx) UpdateOwner(ctx context.Context, owner *domain.Owner) error {
	return updateOwner(ctx, t.tx, owner)
}
