package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/openhousing/processes/internal/domain/entity"
	"github.com/openhousing/processes/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// TenureRepository implements port.TenureGateway on the tenure read-model
// table. A missing row yields (nil, nil); the caller decides whether that is
// a data inconsistency.
type TenureRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewTenureRepository creates a new tenure lookup
func NewTenureRepository(db *sqlite.DB, logger *zap.Logger) *TenureRepository {
	return &TenureRepository{
		db:     db,
		logger: logger,
	}
}

// GetTenureByID retrieves a tenure snapshot by ID
func (r *TenureRepository) GetTenureByID(ctx context.Context, id string) (*entity.Tenure, error) {
	var tenure entity.Tenure
	if err := getDocument(ctx, r.db, r.logger, "tenure_records", id, &tenure); err != nil {
		return nil, err
	}
	if tenure.ID == "" {
		return nil, nil
	}
	return &tenure, nil
}

// PersonRepository implements port.PersonGateway on the person read-model table
type PersonRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewPersonRepository creates a new person lookup
func NewPersonRepository(db *sqlite.DB, logger *zap.Logger) *PersonRepository {
	return &PersonRepository{
		db:     db,
		logger: logger,
	}
}

// GetPersonByID retrieves a person snapshot by ID
func (r *PersonRepository) GetPersonByID(ctx context.Context, id string) (*entity.Person, error) {
	var person entity.Person
	if err := getDocument(ctx, r.db, r.logger, "person_records", id, &person); err != nil {
		return nil, err
	}
	if person.ID == "" {
		return nil, nil
	}
	return &person, nil
}

// getDocument reads one JSON document row. sql.ErrNoRows leaves out untouched.
func getDocument(ctx context.Context, db *sqlite.DB, logger *zap.Logger, table, id string, out any) error {
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = ?`, table)

	var document []byte
	err := db.Executor(ctx).QueryRowContext(ctx, query, id).Scan(&document)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		logger.Error("Failed to read record",
			zap.String("table", table), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to read %s record: %w", table, err)
	}

	if err := json.Unmarshal(document, out); err != nil {
		return fmt.Errorf("failed to decode %s record %s: %w", table, id, err)
	}
	return nil
}

// PutTenure upserts a tenure snapshot. Used by the sync feed and by tests.
func (r *TenureRepository) PutTenure(ctx context.Context, tenure *entity.Tenure) error {
	return putDocument(ctx, r.db, "tenure_records", tenure.ID, tenure)
}

// PutPerson upserts a person snapshot. Used by the sync feed and by tests.
func (r *PersonRepository) PutPerson(ctx context.Context, person *entity.Person) error {
	return putDocument(ctx, r.db, "person_records", person.ID, person)
}

func putDocument(ctx context.Context, db *sqlite.DB, table, id string, in any) error {
	document, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", table, err)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, document) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document`, table)

	if _, err := db.Executor(ctx).ExecContext(ctx, query, id, document); err != nil {
		return fmt.Errorf("failed to store %s record: %w", table, err)
	}
	return nil
}
