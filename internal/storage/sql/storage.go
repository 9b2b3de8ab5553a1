package sqlstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/petrenko-v/dayplanner/internal/storage"
	log "github.com/sirupsen/logrus"
)

var ErrConnectionFailed = errors.New("failed to connect")

const dbErrUniqueViolation = "23505"

const selectColumns = "id, title, description, start_timestamp AS startTime, end_timestamp AS endTime, " +
	"priority, created_at AS createdAt, updated_at AS updatedAt, owner_id AS ownerId"

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) ListEvents(ctx context.Context, ownerID string) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+selectColumns+" FROM Events WHERE owner_id=$1 ORDER BY start_timestamp, created_at",
		ownerID,
	)
	return events, err
}

func (s *Storage) GetEvent(ctx context.Context, id string, ownerID string) (storage.Event, error) {
	var event storage.Event
	err := s.db.GetContext(
		ctx,
		&event,
		"SELECT "+selectColumns+" FROM Events WHERE id=$1 AND owner_id=$2",
		id,
		ownerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundOrForbidden)
	}
	return event, err
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("event end time should be after start time: %w", storage.ErrIncorrectEventTime)
	}

	var err error
	switch e.ID {
	case "":
		err = s.db.QueryRowxContext(
			ctx,
			"INSERT INTO Events(title, description, start_timestamp, end_timestamp, priority, owner_id) "+
				"VALUES($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at",
			e.Title, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.Priority, e.OwnerID,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	default:
		err = s.db.QueryRowxContext(
			ctx,
			"INSERT INTO Events(id, title, description, start_timestamp, end_timestamp, priority, owner_id) "+
				"VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at",
			e.ID, e.Title, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.Priority, e.OwnerID,
		).Scan(&e.CreatedAt, &e.UpdatedAt)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrUniqueViolation {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}

	return err
}

func (s *Storage) UpdateEvent(ctx context.Context, id string, ownerID string, e storage.Event) error {
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("event end time should be after start time: %w", storage.ErrIncorrectEventTime)
	}

	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"UPDATE Events SET title=$3, description=$4, start_timestamp=$5, end_timestamp=$6, priority=$7, "+
			"updated_at=now() WHERE id=$1 AND owner_id=$2 RETURNING TRUE",
		id,
		ownerID,
		e.Title,
		e.Description,
		e.StartTime.UTC(),
		e.EndTime.UTC(),
		e.Priority,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundOrForbidden)
	}
	return err
}

func (s *Storage) RemoveEvent(ctx context.Context, id string, ownerID string) error {
	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"DELETE FROM Events WHERE id=$1 AND owner_id=$2 RETURNING TRUE",
		id,
		ownerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundOrForbidden)
	}
	return err
}

// Select in range [from:to).
func (s *Storage) ListStartingBetween(ctx context.Context, from time.Time, to time.Time) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+selectColumns+" FROM Events WHERE start_timestamp>=$1 AND start_timestamp<$2 "+
			"ORDER BY start_timestamp",
		from,
		to,
	)
	return events, err
}

func (s *Storage) RemoveStartedBefore(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM Events WHERE start_timestamp < $1", t)
	return err
}
