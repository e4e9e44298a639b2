package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/satheeshds/phonebook/models"
)

const personSelectQuery = `SELECT id, name, number, revision FROM persons`

func scanPerson(scanner interface{ Scan(...any) error }) (models.Person, error) {
	var p models.Person
	err := scanner.Scan(&p.ID, &p.Name, &p.Number, &p.Revision)
	return p, err
}

// Persons is the SQL-backed person store.
type Persons struct {
	db *DB
}

func NewPersons(db *DB) *Persons {
	return &Persons{db: db}
}

func (s *Persons) List(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx, personSelectQuery+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}
	defer rows.Close()

	persons := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (s *Persons) Get(ctx context.Context, id string) (models.Person, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return models.Person{}, err
	}
	p, err := scanPerson(s.db.QueryRowContext(ctx, s.db.rebind(personSelectQuery+" WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, models.ErrNotFound
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("getting person: %w", err)
	}
	return p, nil
}

func (s *Persons) Create(ctx context.Context, input models.PersonInput) (models.Person, error) {
	if err := input.Validate(); err != nil {
		return models.Person{}, err
	}

	p := models.Person{ID: models.NewID(), Name: input.Name, Number: input.Number}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.db.rebind("INSERT INTO persons (id, name, number, revision, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
		p.ID, p.Name, p.Number, p.Revision, now, now)
	if err != nil {
		return models.Person{}, fmt.Errorf("inserting person: %w", err)
	}
	return p, nil
}

func (s *Persons) UpdateNumber(ctx context.Context, id, number string) (models.Person, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return models.Person{}, err
	}
	if err := models.ValidateNumber(number); err != nil {
		return models.Person{}, err
	}

	p, err := scanPerson(s.db.QueryRowContext(ctx,
		s.db.rebind("UPDATE persons SET number = ?, revision = revision + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING id, name, number, revision"),
		number, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, models.ErrNotFound
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("updating person: %w", err)
	}
	return p, nil
}

// Delete removes the person with id. Absent and malformed ids are not errors.
func (s *Persons) Delete(ctx context.Context, id string) error {
	id, err := models.ParseID(id)
	if err != nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, s.db.rebind("DELETE FROM persons WHERE id = ?"), id); err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	return nil
}

func (s *Persons) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting persons: %w", err)
	}
	return n, nil
}
