package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/beacon/backend/internal/models"
)

const messageColumns = `id, assignment_id, case_id, sender, message_type, message_text, options, question_type,
	in_response_to, read, read_at, created_at`

func scanMessage(row pgx.Row) (models.Message, error) {
	var (
		m            models.Message
		sender, kind string
		options      []byte
		questionType *string
	)
	if err := row.Scan(&m.ID, &m.AssignmentID, &m.CaseID, &sender, &kind, &m.Text, &options, &questionType,
		&m.InResponseTo, &m.Read, &m.ReadAt, &m.CreatedAt); err != nil {
		return models.Message{}, err
	}
	m.Sender = models.Sender(sender)
	m.Type = models.MessageType(kind)
	if questionType != nil {
		q := models.QuestionType(*questionType)
		m.QuestionType = &q
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &m.Options); err != nil {
			return models.Message{}, err
		}
	}
	return m, nil
}

func senderStrings(in []models.Sender) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func (s *Store) InsertMessage(ctx context.Context, m models.Message) (models.Message, error) {
	var options []byte
	if len(m.Options) > 0 {
		var err error
		if options, err = json.Marshal(m.Options); err != nil {
			return models.Message{}, err
		}
	}
	var questionType *string
	if m.QuestionType != nil {
		q := string(*m.QuestionType)
		questionType = &q
	}
	return scanMessage(s.Pool.QueryRow(ctx, `
		INSERT INTO messages (id, assignment_id, case_id, sender, message_type, message_text, options, question_type, in_response_to)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+messageColumns,
		uuid.NewString(), m.AssignmentID, m.CaseID, string(m.Sender), string(m.Type), m.Text, options, questionType, m.InResponseTo))
}

func (s *Store) GetMessage(ctx context.Context, id string) (models.Message, error) {
	m, err := scanMessage(s.Pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return models.Message{}, notFound(err, "message %s not found", id)
	}
	return m, nil
}

func (s *Store) ListMessages(ctx context.Context, assignmentID string, limit int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE assignment_id = $1 ORDER BY created_at ASC, seq ASC`
	args := []any{assignmentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.listMessages(ctx, query, args...)
}

func (s *Store) UnreadMessages(ctx context.Context, assignmentID string, from []models.Sender) ([]models.Message, error) {
	return s.listMessages(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE assignment_id = $1 AND sender = ANY($2) AND read = FALSE
		ORDER BY created_at ASC, seq ASC
	`, assignmentID, senderStrings(from))
}

func (s *Store) MarkMessagesRead(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.Pool.Exec(ctx, `UPDATE messages SET read = TRUE, read_at = NOW() WHERE id = ANY($1) AND read = FALSE`, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) LatestOpenQuestion(ctx context.Context, assignmentID string, from []models.Sender) (*models.Message, error) {
	m, err := scanMessage(s.Pool.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM messages q
		WHERE q.assignment_id = $1 AND q.sender = ANY($2) AND q.message_type = 'question' AND q.read = FALSE
			AND NOT EXISTS (SELECT 1 FROM messages a WHERE a.in_response_to = q.id)
		ORDER BY q.created_at DESC, q.seq DESC
		LIMIT 1
	`, assignmentID, senderStrings(from)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) listMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
