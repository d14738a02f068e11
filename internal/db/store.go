package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stando/backend/internal/models"
)

//go:embed schema.sql
var schema string

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrUserNotFound    = errors.New("user not found")
	// ErrAlreadyTaken means the conditional claim lost: another agent got
	// the booking between the dashboard refresh and the accept call.
	ErrAlreadyTaken = errors.New("booking has already been taken")
	// ErrStaleStatus means the booking's status changed between the
	// transition plan and the conditional write.
	ErrStaleStatus = errors.New("booking status changed")
)

// StatusUpdate is the set of fields a lifecycle transition touches. Only
// non-nil fields are written; nothing is implicitly reset.
type StatusUpdate struct {
	Status          string
	Progress        *int
	EstimatedCost   *float64
	DurationMinutes *int
	FinalCost       *float64
	AgentPayout     *float64
	ReleaseAgent    bool
}

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schema)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const bookingColumns = `
	b.id, b.customer, b.customer_id, b.customer_phone, b.service, b.location,
	b.latitude, b.longitude, b.instructions, b.status, b.location_verified,
	b.queue_position, b.total_in_queue, b.progress, b.estimated_cost,
	b.final_cost, b.duration_minutes, b.agent_payout, b.created_at,
	a.id, a.name, a.eta, a.phone, a.lat, a.lng`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b          models.Booking
		agentID    *string
		agentName  *string
		agentETA   *string
		agentPhone *string
		agentLat   *float64
		agentLng   *float64
	)
	err := row.Scan(
		&b.ID, &b.Customer, &b.CustomerID, &b.CustomerPhone, &b.Service, &b.Location,
		&b.Latitude, &b.Longitude, &b.Instructions, &b.Status, &b.LocationVerified,
		&b.QueuePosition, &b.TotalInQueue, &b.Progress, &b.EstimatedCost,
		&b.FinalCost, &b.DurationMinutes, &b.AgentPayout, &b.CreatedAt,
		&agentID, &agentName, &agentETA, &agentPhone, &agentLat, &agentLng,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if agentID != nil {
		b.Agent = &models.AgentInfo{
			ID:       *agentID,
			Name:     derefString(agentName),
			ETA:      derefString(agentETA),
			Phone:    derefString(agentPhone),
			Location: models.LatLng{Lat: derefFloat(agentLat), Lng: derefFloat(agentLng)},
		}
	}
	return b, nil
}

// CreateBooking inserts a Pending booking under a fresh sequential display
// id (BOOK001, BOOK002, ...). The id comes from a Postgres sequence, so
// concurrent creations cannot collide the way a count-then-insert would.
func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	var seq int64
	if err := s.Pool.QueryRow(ctx, `SELECT nextval('booking_display_seq')`).Scan(&seq); err != nil {
		return err
	}
	b.ID = fmt.Sprintf("BOOK%03d", seq)
	b.Status = "Pending"

	return s.Pool.QueryRow(ctx, `
		INSERT INTO bookings (id, customer, customer_id, customer_phone, service, location, latitude, longitude, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		b.ID, b.Customer, b.CustomerID, b.CustomerPhone, b.Service, b.Location,
		b.Latitude, b.Longitude, b.Instructions,
	).Scan(&b.CreatedAt)
}

func (s *Store) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN agents a ON b.agent_id = a.id
		WHERE b.id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListBookings returns every booking, newest first. The customer display
// name prefers the live users row over the snapshot taken at creation.
func (s *Store) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT
			b.id, COALESCE(u.name, b.customer), b.customer_id, b.customer_phone, b.service, b.location,
			b.latitude, b.longitude, b.instructions, b.status, b.location_verified,
			b.queue_position, b.total_in_queue, b.progress, b.estimated_cost,
			b.final_cost, b.duration_minutes, b.agent_payout, b.created_at,
			a.id, a.name, a.eta, a.phone, a.lat, a.lng
		FROM bookings b
		LEFT JOIN agents a ON b.agent_id = a.id
		LEFT JOIN users u ON b.customer_id = u.id
		ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (s *Store) ListBookingsByCustomer(ctx context.Context, customerID int64) ([]models.Booking, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN agents a ON b.agent_id = a.id
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AcceptBooking claims a Pending booking for an agent. The claim and the
// availability flip happen in one transaction, and the claim itself is a
// single conditional write: whoever's UPDATE matches the Pending row wins,
// the loser sees zero affected rows and gets ErrAlreadyTaken.
func (s *Store) AcceptBooking(ctx context.Context, bookingID, agentID string) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE agents SET is_available = FALSE WHERE id = $1`, agentID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAgentNotFound
		}

		tag, err = tx.Exec(ctx, `
			UPDATE bookings SET agent_id = $1, status = 'Queued'
			WHERE id = $2 AND status = 'Pending'`, agentID, bookingID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var status string
			if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrBookingNotFound
				}
				return err
			}
			return ErrAlreadyTaken
		}
		return nil
	})
}

// ApplyStatusUpdate writes a planned transition, guarded by the status the
// plan was computed against. A booking that moved on in the meantime fails
// the guard and nothing is written. Completion also releases the owning
// agent back to the available pool, in the same transaction.
func (s *Store) ApplyStatusUpdate(ctx context.Context, bookingID, fromStatus string, u StatusUpdate) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		sets := []string{"status = $1"}
		args := []any{u.Status}
		appendSet := func(column string, value any) {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
		if u.Progress != nil {
			appendSet("progress", *u.Progress)
		}
		if u.EstimatedCost != nil {
			appendSet("estimated_cost", *u.EstimatedCost)
		}
		if u.DurationMinutes != nil {
			appendSet("duration_minutes", *u.DurationMinutes)
		}
		if u.FinalCost != nil {
			appendSet("final_cost", *u.FinalCost)
		}
		if u.AgentPayout != nil {
			appendSet("agent_payout", *u.AgentPayout)
		}

		args = append(args, bookingID, fromStatus)
		query := fmt.Sprintf(`
			UPDATE bookings SET %s
			WHERE id = $%d AND status = $%d
			RETURNING agent_id`,
			strings.Join(sets, ", "), len(args)-1, len(args))

		var agentID *string
		if err := tx.QueryRow(ctx, query, args...).Scan(&agentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				var status string
				if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status); err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return ErrBookingNotFound
					}
					return err
				}
				return ErrStaleStatus
			}
			return err
		}

		if u.ReleaseAgent && agentID != nil {
			if _, err := tx.Exec(ctx, `UPDATE agents SET is_available = TRUE WHERE id = $1`, *agentID); err != nil {
				return err
			}
		}
		return nil
	})
}

// VerifyLocation marks the agent as arrived. Never reset afterwards.
func (s *Store) VerifyLocation(ctx context.Context, bookingID string) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE bookings SET location_verified = TRUE, progress = 50 WHERE id = $1`, bookingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *Store) UpdateQueueInfo(ctx context.Context, bookingID string, queuePosition, totalInQueue int) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE bookings SET queue_position = $1, total_in_queue = $2 WHERE id = $3`,
		queuePosition, totalInQueue, bookingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CreateAgent inserts a new agent under a sequential display id
// (AGENT001, AGENT002, ...), available by default.
func (s *Store) CreateAgent(ctx context.Context, a *models.Agent) error {
	var seq int64
	if err := s.Pool.QueryRow(ctx, `SELECT nextval('agent_display_seq')`).Scan(&seq); err != nil {
		return err
	}
	a.ID = fmt.Sprintf("AGENT%03d", seq)
	a.IsAvailable = true

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO agents (id, name, email, phone, password, lat, lng, eta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Name, a.Email, a.Phone, a.Password, a.Lat, a.Lng, a.ETA)
	return err
}

func (s *Store) AgentEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM agents WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (s *Store) GetAgentByEmail(ctx context.Context, email string) (models.Agent, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, password, lat, lng, eta, is_available
		FROM agents WHERE email = $1`, email)
	return scanAgent(row)
}

func (s *Store) GetAgent(ctx context.Context, id string) (models.Agent, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, password, lat, lng, eta, is_available
		FROM agents WHERE id = $1`, id)
	return scanAgent(row)
}

func scanAgent(row rowScanner) (models.Agent, error) {
	var a models.Agent
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Password, &a.Lat, &a.Lng, &a.ETA, &a.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Agent{}, ErrAgentNotFound
	}
	return a, err
}

func (s *Store) ListAgents(ctx context.Context) ([]models.Agent, error) {
	return s.queryAgents(ctx, `
		SELECT id, name, email, phone, password, lat, lng, eta, is_available
		FROM agents ORDER BY id`)
}

func (s *Store) ListAvailableAgents(ctx context.Context) ([]models.Agent, error) {
	return s.queryAgents(ctx, `
		SELECT id, name, email, phone, password, lat, lng, eta, is_available
		FROM agents WHERE is_available = TRUE ORDER BY id`)
}

func (s *Store) queryAgents(ctx context.Context, query string) ([]models.Agent, error) {
	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAgentLocation(ctx context.Context, id string, lat, lng float64) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE agents SET lat = $1, lng = $2 WHERE id = $3`, lat, lng, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		u.Name, u.Email, u.Password,
	).Scan(&u.ID)
}

func (s *Store) UserEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx, `
		SELECT id, name, email, password FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

// GetChatHistory returns the booking's message log. An unknown booking
// yields an empty history, matching the chat panel's expectations.
func (s *Store) GetChatHistory(ctx context.Context, bookingID string) ([]models.ChatMessage, error) {
	var history []models.ChatMessage
	err := s.Pool.QueryRow(ctx, `
		SELECT chat_history FROM bookings WHERE id = $1`, bookingID,
	).Scan(&history)
	if errors.Is(err, pgx.ErrNoRows) {
		return []models.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	return history, nil
}

// AppendChatMessage appends atomically inside the database, so two senders
// racing never drop each other's message.
func (s *Store) AppendChatMessage(ctx context.Context, bookingID string, msg models.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE bookings
		SET chat_history = COALESCE(chat_history, '[]'::jsonb) || $1::jsonb
		WHERE id = $2`, string(payload), bookingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
