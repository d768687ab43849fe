package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fiscalchat-backend/internal/models"
	"fiscalchat-backend/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// AppendMessage inserts a new message row. created_at is assigned by the
// database (DEFAULT NOW()), which is also what orders session history.
func (s *PostgresStore) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (*models.Message, error) {
	query := `
		INSERT INTO messages (id, session_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, session_id, role, content, created_at`

	msg := &models.Message{}
	err := s.db.QueryRow(ctx, query,
		arg.ID,
		arg.SessionID,
		arg.Role,
		arg.Content,
	).Scan(
		&msg.ID,
		&msg.SessionID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			log.Printf("ERROR [PostgresStore] AppendMessage: PostgreSQL error for session %s: Code=%s, Message=%s", arg.SessionID, pgErr.Code, pgErr.Message)
		} else {
			log.Printf("ERROR [PostgresStore] AppendMessage: Failed to insert message for session %s: %v", arg.SessionID, err)
		}
		return nil, fmt.Errorf("database error appending message: %w", err)
	}

	return msg, nil
}

// ListMessagesBySession returns all messages for a session in insertion order.
func (s *PostgresStore) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, sessionID)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListMessagesBySession: Failed to query messages for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("database error listing messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			log.Printf("ERROR [PostgresStore] ListMessagesBySession: Failed to scan row for session %s: %v", sessionID, err)
			return nil, fmt.Errorf("database error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		log.Printf("ERROR [PostgresStore] ListMessagesBySession: Row iteration error for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("database error iterating messages: %w", err)
	}

	return messages, nil
}
