package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

const auditCollection = "chat_classification_audit"

// auditLog is the append-only classification audit log, backed
// by MongoDB the way the rest of the document-oriented state in this repo
// is, rather than the relational store.
type auditLog struct {
	collection *mongo.Collection
}

func newAuditLog(db *mongo.Database) *auditLog {
	return &auditLog{collection: db.Collection(auditCollection)}
}

func hashText(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// record writes one classification outcome. Failures are logged, not
// propagated — an audit-log write must never block or fail a turn.
func (a *auditLog) record(ctx context.Context, requestID, userID, normalized string, result Result) {
	entry := chatmodel.AuditRecord{
		RequestID:  requestID,
		UserID:     userID,
		TextHash:   hashText(normalized),
		Label:      result.Label,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
		LayerResults: map[string]any{
			"l2_hardstop": result.LayerResults.HardStop,
			"l3_scorer":   result.LayerResults.Scorer,
			"l4_judge":    result.LayerResults.Judge,
		},
		CreatedAt: time.Now(),
	}

	if _, err := a.collection.InsertOne(ctx, entry); err != nil {
		logger.Warnw("failed to write classification audit record", "request_id", requestID, "error", err.Error())
	}
}
