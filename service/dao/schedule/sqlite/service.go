package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/schedule"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

const schema = `CREATE TABLE IF NOT EXISTS kajian_schedule (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tanggal TEXT NOT NULL,
	waktu TEXT NOT NULL,
	ustadz TEXT NOT NULL,
	tema TEXT NOT NULL,
	lokasi TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT 1,
	UNIQUE (tanggal, waktu, ustadz)
)`

const columns = "id, tanggal, waktu, ustadz, tema, lokasi, active"

// Service implements a sqlite backed schedule store.
type Service struct {
	db *sql.DB
}

var _ schedule.Store = (*Service)(nil)

// Save inserts or updates a session. New sessions get the generated id.
func (s *Service) Save(ctx context.Context, entity *schedule.Schedule) error {
	if entity == nil {
		return dao.ErrNilEntity
	}
	if entity.ID == 0 {
		result, err := s.db.ExecContext(ctx, `INSERT INTO kajian_schedule (tanggal, waktu, ustadz, tema, lokasi, active) VALUES (?, ?, ?, ?, ?, ?)`,
			entity.Date, entity.Time, entity.Speaker, entity.Topic, entity.Place, entity.Active)
		if err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read schedule id: %w", err)
		}
		entity.ID = int(id)
		return nil
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO kajian_schedule (id, tanggal, waktu, ustadz, tema, lokasi, active) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET tanggal = excluded.tanggal, waktu = excluded.waktu, ustadz = excluded.ustadz, tema = excluded.tema, lokasi = excluded.lokasi, active = excluded.active`,
		entity.ID, entity.Date, entity.Time, entity.Speaker, entity.Topic, entity.Place, entity.Active)
	if err != nil {
		return fmt.Errorf("failed to save schedule %d: %w", entity.ID, err)
	}
	return nil
}

// Load returns a session by id or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id int) (*schedule.Schedule, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM kajian_schedule WHERE id = ?", id)
	ret := &schedule.Schedule{}
	if err := scan(row, ret); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dao.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load schedule %d: %w", id, err)
	}
	return ret, nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM kajian_schedule WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule %d: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns sessions ordered by date. Active and Speaker filters are supported.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*schedule.Schedule, error) {
	var where []string
	var args []interface{}
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case "Active":
			where = append(where, "active = ?")
			args = append(args, parameter.Value)
		case "Speaker", "Date":
			column := map[string]string{"Speaker": "ustadz", "Date": "tanggal"}[parameter.Name]
			switch actual := parameter.Value.(type) {
			case []string:
				if len(actual) == 0 {
					continue
				}
				where = append(where, column+" IN (?"+strings.Repeat(", ?", len(actual)-1)+")")
				for _, v := range actual {
					args = append(args, v)
				}
			default:
				where = append(where, column+" = ?")
				args = append(args, actual)
			}
		}
	}
	query := "SELECT " + columns + " FROM kajian_schedule"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY tanggal, id"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()
	var ret []*schedule.Schedule
	for rows.Next() {
		item := &schedule.Schedule{}
		if err = scan(rows, item); err != nil {
			return nil, fmt.Errorf("failed to read schedule: %w", err)
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// Active returns active sessions ordered by date.
func (s *Service) Active(ctx context.Context) ([]*schedule.Schedule, error) {
	return s.List(ctx, dao.NewBoolParameter("Active", true))
}

// Seed inserts the sessions unless an identical date, time and speaker row exists.
func (s *Service) Seed(ctx context.Context, seed ...*schedule.Schedule) error {
	for _, item := range seed {
		_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO kajian_schedule (tanggal, waktu, ustadz, tema, lokasi, active) VALUES (?, ?, ?, ?, ?, ?)`,
			item.Date, item.Time, item.Speaker, item.Topic, item.Place, item.Active)
		if err != nil {
			return fmt.Errorf("failed to seed schedule: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Service) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner, item *schedule.Schedule) error {
	return row.Scan(&item.ID, &item.Date, &item.Time, &item.Speaker, &item.Topic, &item.Place, &item.Active)
}

// New opens the database at dsn and creates the schema.
func New(ctx context.Context, dsn string) (*Service, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite dsn cannot be empty")
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dsn, err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Service{db: db}, nil
}
