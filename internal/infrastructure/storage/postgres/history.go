package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"onghub/internal/core/id"
	"onghub/internal/domain/organization"
)

// CompressionAlgo specifies the compression algorithm used for a change set.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the change-set size above which payloads are
// stored zstd-compressed.
const DefaultCompressThreshold = 10 * 1024

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type historyRow struct {
	ID                id.ID           `db:"id"`
	OrganizationID    id.ID           `db:"organization_id"`
	Facet             string          `db:"facet"`
	Action            string          `db:"action"`
	UserID            string          `db:"user_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// HistoryStore keeps the organization change log in organization_history.
type HistoryStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ organization.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a history store. A threshold <= 0 selects
// DefaultCompressThreshold.
func NewHistoryStore(txManager *TxManager, threshold int) (*HistoryStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &HistoryStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

// Record appends one entry, joining the caller's transaction when present.
func (s *HistoryStore) Record(ctx context.Context, entry *organization.HistoryEntry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	row := s.encode(entry)
	query, args, err := psql.Insert("organization_history").
		SetMap(StructToMap(row)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build history insert: %w", err)
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, query, args...); err != nil {
		return MapError(err, "organization_history", entry.ID)
	}
	return nil
}

// List returns the newest entries of one organization first.
func (s *HistoryStore) List(ctx context.Context, orgID id.ID, limit int) ([]organization.HistoryEntry, error) {
	query, args, err := psql.Select(ExtractDBColumns[historyRow]()...).
		From("organization_history").
		Where(sq.Eq{"organization_id": orgID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history select: %w", err)
	}

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]organization.HistoryEntry, 0, limit)
	for rows.Next() {
		var r historyRow
		if err := rows.Scan(
			&r.ID, &r.OrganizationID, &r.Facet, &r.Action, &r.UserID,
			&r.Changes, &r.ChangesCompressed, &r.CompressionAlgo, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e, err := s.decode(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *HistoryStore) encode(e *organization.HistoryEntry) historyRow {
	row := historyRow{
		ID:              e.ID,
		OrganizationID:  e.OrganizationID,
		Facet:           string(e.Facet),
		Action:          e.Action,
		UserID:          e.UserID,
		Changes:         e.Changes,
		CompressionAlgo: CompressionNone,
		CreatedAt:       e.CreatedAt,
	}
	if len(e.Changes) > s.compressThreshold {
		row.ChangesCompressed = s.encoder.EncodeAll(e.Changes, nil)
		row.Changes = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row
}

func (s *HistoryStore) decode(r historyRow) (organization.HistoryEntry, error) {
	changes := r.Changes
	if r.CompressionAlgo == CompressionZstd && len(r.ChangesCompressed) > 0 {
		decompressed, err := s.decoder.DecodeAll(r.ChangesCompressed, nil)
		if err != nil {
			return organization.HistoryEntry{}, fmt.Errorf("decompress history %s: %w", r.ID, err)
		}
		changes = decompressed
	}
	return organization.HistoryEntry{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		Facet:          organization.Facet(r.Facet),
		Action:         r.Action,
		Changes:        changes,
		UserID:         r.UserID,
		CreatedAt:      r.CreatedAt,
	}, nil
}
