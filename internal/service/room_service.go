package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyJoined = errors.New("already joined")
	ErrRoomNotFound  = repository.ErrRoomNotFound
)

// NotEligibleError reports why a join was refused before any money
// moved. Reason is "gender" or "age".
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("not eligible: %s", e.Reason)
}

// RoomService is the room registry: creation, joining, chat, listing.
// Fees are sinks, debited from the actor and never paid to the host.
type RoomService struct {
	db        *pgxpool.Pool
	rooms     *repository.RoomRepository
	users     *repository.UserRepository
	ledger    *LedgerService
	createFee int64
	joinFee   int64

	// notify, when set, fans a committed chat message out to
	// connected room watchers.
	notify func(roomID int64, msg *domain.ChatMessage)
}

func NewRoomService(db *pgxpool.Pool, ledger *LedgerService, createFee, joinFee int64) *RoomService {
	return &RoomService{
		db:        db,
		rooms:     repository.NewRoomRepository(db),
		users:     repository.NewUserRepository(db),
		ledger:    ledger,
		createFee: createFee,
		joinFee:   joinFee,
	}
}

// SetChatNotifier wires the websocket fan-out. Optional.
func (s *RoomService) SetChatNotifier(fn func(roomID int64, msg *domain.ChatMessage)) {
	s.notify = fn
}

func (s *RoomService) Exists(ctx context.Context, roomID int64) (bool, error) {
	return s.rooms.RoomExists(ctx, roomID)
}

// Create validates the spec, debits the create fee and inserts the room
// with the host as sole roster member in one transaction, so a failed
// debit leaves no room behind.
func (s *RoomService) Create(ctx context.Context, hostID int64, spec domain.RoomSpec) (*domain.Room, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.ledger.DebitTx(ctx, tx, hostID, s.createFee, domain.TxCreateRoom, nil); err != nil {
		return nil, err
	}

	room := &domain.Room{
		HostID:            hostID,
		Sport:             spec.Sport,
		LocationName:      spec.LocationName,
		ScheduledAt:       spec.ScheduledAt,
		MaxPlayers:        spec.MaxPlayers,
		SkillLevel:        spec.SkillLevel,
		GenderRequirement: spec.GenderRequirement,
		MinAge:            spec.MinAge,
		MaxAge:            spec.MaxAge,
		Notes:             spec.Notes,
	}
	if err := s.rooms.CreateTx(ctx, tx, room); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.rooms.GetByID(ctx, room.ID)
}

// Join applies the eligibility checks in their fixed order (gender,
// age, coins, capacity, membership) and, on success, debits the join
// fee and appends the roster row atomically. The room row lock
// serializes concurrent joins so capacity is never overdrawn.
func (s *RoomService) Join(ctx context.Context, userID, roomID int64) (*domain.Room, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	room, err := s.rooms.GetByIDTx(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}

	balance, _, err := s.users.LockForUpdateTx(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	switch domain.EvaluateJoin(room, user, balance, s.joinFee, time.Now()) {
	case domain.JoinAllowed:
	case domain.DeniedGender:
		return nil, &NotEligibleError{Reason: "gender"}
	case domain.DeniedAge:
		return nil, &NotEligibleError{Reason: "age"}
	case domain.DeniedCoins:
		return nil, ErrInsufficientFunds
	case domain.DeniedFull:
		return nil, ErrRoomFull
	case domain.DeniedAlreadyIn:
		return nil, ErrAlreadyJoined
	}

	if _, err := s.ledger.DebitTx(ctx, tx, userID, s.joinFee, domain.TxJoinRoom,
		map[string]any{"room_id": roomID}); err != nil {
		return nil, err
	}
	if err := s.rooms.AddPlayerTx(ctx, tx, roomID, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.rooms.GetByID(ctx, roomID)
}

// Get returns a room with roster and chat log.
func (s *RoomService) Get(ctx context.Context, roomID int64) (*domain.Room, []domain.ChatMessage, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.rooms.GetChatMessages(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	return room, msgs, nil
}

// List returns rooms ordered by scheduled time. sport "" or "all" means
// no filter.
func (s *RoomService) List(ctx context.Context, sport string) ([]*domain.Room, error) {
	filter := domain.Sport("")
	if sport != "" && sport != "all" {
		filter = domain.Sport(sport)
		if !domain.ValidSport(filter) {
			return nil, fmt.Errorf("%w: unknown sport %q", domain.ErrValidation, sport)
		}
	}
	return s.rooms.List(ctx, filter)
}

// PostChatMessage appends to the room's chat log. No fee and no
// membership check: anyone holding a room reference may post.
func (s *RoomService) PostChatMessage(ctx context.Context, roomID, userID int64, text string) (*domain.ChatMessage, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrValidation)
	}

	exists, err := s.rooms.RoomExists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoomNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := &domain.ChatMessage{RoomID: roomID, UserID: userID, Name: user.Name, Text: text}
	if err := s.rooms.AddChatMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify(roomID, msg)
	}
	return msg, nil
}
