package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// GroupRepo defines the persistence operations for confirmed Groups.
type GroupRepo interface {
	// Create inserts a group with its destinations and interests and returns
	// the persisted record (with generated id and created_at populated).
	Create(ctx context.Context, g domain.Group) (domain.Group, error)

	// GetByID retrieves a group by its UUID primary key.
	// Returns domain.ErrNotFound if no group with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Group, error)
}

// pgGroupRepo is the Postgres implementation of GroupRepo.
type pgGroupRepo struct {
	db db
}

// NewGroupRepo constructs a GroupRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewGroupRepo(db db) GroupRepo {
	return &pgGroupRepo{db: db}
}

// Create writes the group row and its ordered child rows in one transaction.
func (r *pgGroupRepo) Create(ctx context.Context, g domain.Group) (domain.Group, error) {
	const insertGroup = `
		INSERT INTO groups (name, image_ref, description, start_date, end_date, link_url, visibility)
		VALUES (@name, @image_ref, @description, @start_date, @end_date, @link_url, @visibility)
		RETURNING id, name, image_ref, description, start_date, end_date, link_url, visibility, created_at`
	const insertDestination = `
		INSERT INTO group_destinations (group_id, position, destination_id, name, country, flag)
		VALUES (@group_id, @position, @destination_id, @name, @country, @flag)`
	const insertInterest = `
		INSERT INTO group_interests (group_id, position, interest_id)
		VALUES (@group_id, @position, @interest_id)`

	var result domain.Group
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, insertGroup, pgx.NamedArgs{
			"name":        g.Name,
			"image_ref":   g.ImageRef, // nil becomes NULL
			"description": g.Description,
			"start_date":  g.StartDate,
			"end_date":    g.EndDate,
			"link_url":    g.LinkURL,
			"visibility":  string(g.Visibility),
		})
		var err error
		result, err = scanGroup(row)
		if err != nil {
			return err
		}

		for i, d := range g.Destinations {
			if _, err := tx.Exec(ctx, insertDestination, pgx.NamedArgs{
				"group_id":       result.ID,
				"position":       i,
				"destination_id": d.ID,
				"name":           d.Name,
				"country":        d.Country,
				"flag":           d.Flag,
			}); err != nil {
				return fmt.Errorf("destination %s: %w", d.ID, err)
			}
		}
		for i, id := range g.Interests {
			if _, err := tx.Exec(ctx, insertInterest, pgx.NamedArgs{
				"group_id":    result.ID,
				"position":    i,
				"interest_id": id,
			}); err != nil {
				return fmt.Errorf("interest %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.Create: %w", err)
	}

	result.Destinations = append([]domain.Destination{}, g.Destinations...)
	result.Interests = append([]string{}, g.Interests...)
	return result, nil
}

// GetByID retrieves a group and its ordered destinations and interests.
func (r *pgGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Group, error) {
	const q = `
		SELECT id, name, image_ref, description, start_date, end_date, link_url, visibility, created_at
		FROM groups
		WHERE id = @id`

	g, err := scanGroup(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", err)
	}

	g.Destinations, err = r.listDestinations(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", err)
	}
	g.Interests, err = r.listInterests(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", err)
	}
	return g, nil
}

func (r *pgGroupRepo) listDestinations(ctx context.Context, groupID uuid.UUID) ([]domain.Destination, error) {
	const q = `
		SELECT destination_id, name, country, flag
		FROM group_destinations
		WHERE group_id = @group_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"group_id": groupID})
	if err != nil {
		return nil, fmt.Errorf("destinations: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Destination, error) {
		var d domain.Destination
		err := row.Scan(&d.ID, &d.Name, &d.Country, &d.Flag)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("destinations: scan: %w", err)
	}
	return out, nil
}

func (r *pgGroupRepo) listInterests(ctx context.Context, groupID uuid.UUID) ([]string, error) {
	const q = `
		SELECT interest_id
		FROM group_interests
		WHERE group_id = @group_id
		ORDER BY position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"group_id": groupID})
	if err != nil {
		return nil, fmt.Errorf("interests: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("interests: scan: %w", err)
	}
	return out, nil
}

// scanGroup maps a single groups row into a domain.Group.
// It handles the UUID and the nullable image_ref and date columns.
func scanGroup(s scanner) (domain.Group, error) {
	var (
		g          domain.Group
		id         pgtype.UUID
		imageRef   pgtype.Text
		startDate  pgtype.Date
		endDate    pgtype.Date
		visibility string
	)

	err := s.Scan(&id, &g.Name, &imageRef, &g.Description, &startDate, &endDate, &g.LinkURL, &visibility, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Group{}, domain.ErrNotFound
		}
		return domain.Group{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	g.Visibility = domain.Visibility(visibility)
	if imageRef.Valid {
		ref := imageRef.String
		g.ImageRef = &ref
	}
	if startDate.Valid {
		sd := startDate.Time
		g.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		g.EndDate = &ed
	}
	return g, nil
}
