package repository

import (
	"context"
	"errors"

	"sportmeet/backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateTx inserts the room and its host roster row. Runs inside the
// caller's transaction so the create fee debit is part of the same
// atomic unit.
func (r *RoomRepository) CreateTx(ctx context.Context, tx pgx.Tx, room *domain.Room) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO rooms (host_id, sport, location_name, scheduled_at, max_players,
		                    skill_level, gender_requirement, min_age, max_age, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		room.HostID, room.Sport, room.LocationName, room.ScheduledAt, room.MaxPlayers,
		room.SkillLevel, room.GenderRequirement, room.MinAge, room.MaxAge, room.Notes,
	).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO room_players (room_id, user_id) VALUES ($1, $2)`,
		room.ID, room.HostID,
	)
	return err
}

// GetByIDTx locks the room row and loads it with its roster. Holding
// the lock serializes concurrent joins on the same room.
func (r *RoomRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, roomID int64) (*domain.Room, error) {
	row := tx.QueryRow(ctx, selectRoom+` WHERE id = $1 FOR UPDATE`, roomID)
	room, err := scanRoom(row)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectPlayers, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	room.Players, err = scanPlayers(rows)
	return room, err
}

// GetByID loads a room with roster, no locking.
func (r *RoomRepository) GetByID(ctx context.Context, roomID int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, selectRoom+` WHERE id = $1`, roomID)
	room, err := scanRoom(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, selectPlayers, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	room.Players, err = scanPlayers(rows)
	return room, err
}

const selectRoom = `
	SELECT id, host_id, sport, location_name, scheduled_at, max_players,
	       skill_level, gender_requirement, min_age, max_age, COALESCE(notes, ''), created_at
	FROM rooms`

const selectPlayers = `
	SELECT rp.user_id, u.name, rp.joined_at
	FROM room_players rp
	JOIN users u ON u.id = rp.user_id
	WHERE rp.room_id = $1
	ORDER BY rp.joined_at, rp.user_id`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.ID, &room.HostID, &room.Sport, &room.LocationName, &room.ScheduledAt,
		&room.MaxPlayers, &room.SkillLevel, &room.GenderRequirement,
		&room.MinAge, &room.MaxAge, &room.Notes, &room.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func scanPlayers(rows pgx.Rows) ([]domain.RoomPlayer, error) {
	var players []domain.RoomPlayer
	for rows.Next() {
		var p domain.RoomPlayer
		if err := rows.Scan(&p.UserID, &p.Name, &p.JoinedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// AddPlayerTx appends a user to the roster inside the join transaction.
func (r *RoomRepository) AddPlayerTx(ctx context.Context, tx pgx.Tx, roomID, userID int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO room_players (room_id, user_id) VALUES ($1, $2)`,
		roomID, userID,
	)
	return err
}

// List returns rooms ordered by scheduled time ascending, optionally
// restricted to one sport.
func (r *RoomRepository) List(ctx context.Context, sport domain.Sport) ([]*domain.Room, error) {
	query := selectRoom
	args := []any{}
	if sport != "" {
		query += ` WHERE sport = $1`
		args = append(args, sport)
	}
	query += ` ORDER BY scheduled_at, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID, &room.HostID, &room.Sport, &room.LocationName, &room.ScheduledAt,
			&room.MaxPlayers, &room.SkillLevel, &room.GenderRequirement,
			&room.MinAge, &room.MaxAge, &room.Notes, &room.CreatedAt,
		); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, room := range rooms {
		prows, err := r.db.Query(ctx, selectPlayers, room.ID)
		if err != nil {
			return nil, err
		}
		room.Players, err = scanPlayers(prows)
		prows.Close()
		if err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

// AddChatMessage appends to the room's chat log.
func (r *RoomRepository) AddChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO room_messages (room_id, user_id, text)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		msg.RoomID, msg.UserID, msg.Text,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// GetChatMessages returns the chat log in send order.
func (r *RoomRepository) GetChatMessages(ctx context.Context, roomID int64) ([]domain.ChatMessage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.room_id, m.user_id, u.name, m.text, m.created_at
		 FROM room_messages m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.room_id = $1
		 ORDER BY m.created_at, m.id`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Name, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// RoomExists is used by the chat surface, which intentionally does not
// require membership.
func (r *RoomRepository) RoomExists(ctx context.Context, roomID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	return exists, err
}
