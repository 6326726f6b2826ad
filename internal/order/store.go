package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an order id does not exist.
var ErrNotFound = errors.New("order: not found")

// PGStore persists order snapshots in Postgres. Nested blocks are stored as
// JSONB; the folio comes from a sequence so it is gapless enough for the
// printed document.
type PGStore struct {
	Pool *pgxpool.Pool
}

const orderColumns = `id, folio, status, customer, vehicle, inspection, damages,
	security_points, services, parts, labor, summary, created_at, updated_at`

// Create inserts a new snapshot and fills in id, folio and timestamps.
func (s *PGStore) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	blobs, err := encodeBlobs(o)
	if err != nil {
		return err
	}
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO orders (id, status, customer, vehicle, inspection, damages,
			security_points, services, parts, labor, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING folio, created_at, updated_at`,
		o.ID, string(o.Status), blobs.customer, blobs.vehicle, blobs.inspection,
		blobs.damages, blobs.securityPoints, blobs.services, blobs.parts,
		blobs.labor, blobs.summary,
	)
	if err := row.Scan(&o.Folio, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Get loads one snapshot by id.
func (s *PGStore) Get(ctx context.Context, id string) (*Order, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List returns a page of snapshots, newest first, optionally filtered by
// status.
func (s *PGStore) List(ctx context.Context, status Status, limit, offset int) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += fmt.Sprintf(` ORDER BY folio DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// Count returns the total number of snapshots matching the filter.
func (s *PGStore) Count(ctx context.Context, status Status) (int, error) {
	query := `SELECT count(*) FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	var total int
	if err := s.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// Update replaces the stored snapshot. Folio and created_at are immutable.
func (s *PGStore) Update(ctx context.Context, o *Order) error {
	blobs, err := encodeBlobs(o)
	if err != nil {
		return err
	}
	row := s.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, customer = $3, vehicle = $4,
			inspection = $5, damages = $6, security_points = $7, services = $8,
			parts = $9, labor = $10, summary = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, string(o.Status), blobs.customer, blobs.vehicle, blobs.inspection,
		blobs.damages, blobs.securityPoints, blobs.services, blobs.parts,
		blobs.labor, blobs.summary,
	)
	if err := row.Scan(&o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// Delete removes a snapshot.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PingDB probes the pool for the readiness endpoint.
func (s *PGStore) PingDB(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Pool.Ping(ctx)
}

type orderBlobs struct {
	customer, vehicle, inspection, damages []byte
	securityPoints, services, parts, labor []byte
	summary                                []byte
}

func encodeBlobs(o *Order) (orderBlobs, error) {
	var b orderBlobs
	var err error
	encode := func(dst *[]byte, v any, name string) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
		if err != nil {
			err = fmt.Errorf("encode %s: %w", name, err)
		}
	}
	encode(&b.customer, o.Customer, "customer")
	encode(&b.vehicle, o.Vehicle, "vehicle")
	encode(&b.inspection, emptySlice(o.Inspection), "inspection")
	encode(&b.damages, emptySlice(o.Damages), "damages")
	encode(&b.securityPoints, emptySlice(o.SecurityPoints), "security points")
	encode(&b.services, emptySlice(o.Services), "services")
	encode(&b.parts, emptySlice(o.Parts), "parts")
	encode(&b.labor, emptySlice(o.Labor), "labor")
	encode(&b.summary, o.Summary, "summary")
	return b, err
}

// emptySlice keeps JSONB columns as [] instead of null.
func emptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var status string
	var b orderBlobs
	if err := row.Scan(&o.ID, &o.Folio, &status, &b.customer, &b.vehicle,
		&b.inspection, &b.damages, &b.securityPoints, &b.services, &b.parts,
		&b.labor, &b.summary, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = Status(status)

	var err error
	decode := func(src []byte, v any, name string) {
		if err != nil {
			return
		}
		if decErr := json.Unmarshal(src, v); decErr != nil {
			err = fmt.Errorf("decode %s: %w", name, decErr)
		}
	}
	decode(b.customer, &o.Customer, "customer")
	decode(b.vehicle, &o.Vehicle, "vehicle")
	decode(b.inspection, &o.Inspection, "inspection")
	decode(b.damages, &o.Damages, "damages")
	decode(b.securityPoints, &o.SecurityPoints, "security points")
	decode(b.services, &o.Services, "services")
	decode(b.parts, &o.Parts, "parts")
	decode(b.labor, &o.Labor, "labor")
	decode(b.summary, &o.Summary, "summary")
	if err != nil {
		return nil, err
	}
	return &o, nil
}
