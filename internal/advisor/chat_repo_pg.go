package advisor

import (
	"context"
	"database/sql"
)

// PGChatRepo implements ChatRepo using Postgres.
type PGChatRepo struct {
	DB *sql.DB
}

// CreateMessage inserts a chat message.
func (r *PGChatRepo) CreateMessage(ctx context.Context, msg ChatMessage) error {
	const query = `
INSERT INTO advisory_chat_messages (
	id, analysis_id, role, content, provider, model, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		msg.ID,
		msg.AnalysisID,
		msg.Role,
		msg.Content,
		nullableString(msg.Provider),
		nullableString(msg.Model),
		msg.CreatedAt,
	)
	return err
}

// ListMessages returns the transcript for an analysis, oldest first.
func (r *PGChatRepo) ListMessages(ctx context.Context, analysisID string) ([]ChatMessage, error) {
	const query = `
SELECT id, analysis_id, role, content, provider, model, created_at
FROM advisory_chat_messages
WHERE analysis_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ChatMessage{}
	for rows.Next() {
		var m ChatMessage
		var provider sql.NullString
		var model sql.NullString
		if err := rows.Scan(&m.ID, &m.AnalysisID, &m.Role, &m.Content, &provider, &model, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Provider = provider.String
		m.Model = model.String
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ ChatRepo = (*PGChatRepo)(nil)
