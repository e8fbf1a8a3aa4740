package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"procura/internal/core/id"
)

// ReloadTrigger says what caused a catalog reload.
type ReloadTrigger string

const (
	TriggerStartup  ReloadTrigger = "startup"
	TriggerNotify   ReloadTrigger = "notify"
	TriggerInterval ReloadTrigger = "interval"
	TriggerManual   ReloadTrigger = "manual"
)

// CompressionAlgo specifies the compression applied to a diagnostics payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const reloadAuditTable = "sys_catalog_reloads"

// ReloadEntry is one row of the catalog reload audit log.
type ReloadEntry struct {
	ID         id.ID         `db:"id" json:"id"`
	Trigger    ReloadTrigger `db:"trigger" json:"trigger"`
	UserID     string        `db:"user_id" json:"userId,omitempty"`
	Generation uint64        `db:"generation" json:"generation"`
	UnitCount  int           `db:"unit_count" json:"unitCount"`
	ItemCount  int           `db:"item_count" json:"itemCount"`
	// Failure holds the reload error; empty on success.
	Failure string `db:"failure" json:"failure,omitempty"`
	// Diagnostics is a JSON array of graph warnings.
	Diagnostics           json.RawMessage `db:"diagnostics" json:"diagnostics,omitempty"`
	DiagnosticsCompressed []byte          `db:"diagnostics_compressed" json:"-"`
	CompressionAlgo       CompressionAlgo `db:"compression_algo" json:"-"`
	CreatedAt             time.Time       `db:"created_at" json:"createdAt"`
}

// ReloadAudit records catalog reloads. Large diagnostics payloads are
// stored zstd-compressed.
type ReloadAudit struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewReloadAudit creates a reload audit log.
func NewReloadAudit(txManager *TxManager) (*ReloadAudit, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ReloadAudit{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 8 * 1024,
	}, nil
}

// compress moves Diagnostics into DiagnosticsCompressed when it exceeds the threshold.
func (a *ReloadAudit) compress(e *ReloadEntry) {
	e.CompressionAlgo = CompressionNone
	if len(e.Diagnostics) > a.compressThreshold {
		e.DiagnosticsCompressed = a.encoder.EncodeAll(e.Diagnostics, nil)
		e.Diagnostics = nil
		e.CompressionAlgo = CompressionZstd
	}
}

// decompress restores Diagnostics from a compressed row.
func (a *ReloadAudit) decompress(e *ReloadEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.DiagnosticsCompressed) == 0 {
		return nil
	}
	raw, err := a.decoder.DecodeAll(e.DiagnosticsCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress diagnostics: %w", err)
	}
	e.Diagnostics = raw
	e.DiagnosticsCompressed = nil
	return nil
}

// Record inserts an entry. ID and CreatedAt are filled when empty.
func (a *ReloadAudit) Record(ctx context.Context, entry ReloadEntry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	a.compress(&entry)

	sql := `
		INSERT INTO ` + reloadAuditTable + ` (
			id, trigger, user_id, generation, unit_count, item_count,
			failure, diagnostics, diagnostics_compressed, compression_algo,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := a.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.Trigger, entry.UserID, int64(entry.Generation),
		entry.UnitCount, entry.ItemCount,
		entry.Failure, entry.Diagnostics, entry.DiagnosticsCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reload audit: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (a *ReloadAudit) Recent(ctx context.Context, limit int) ([]ReloadEntry, error) {
	sql := `
		SELECT id, trigger, user_id, generation, unit_count, item_count,
			   failure, diagnostics, diagnostics_compressed, compression_algo,
			   created_at
		FROM ` + reloadAuditTable + `
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.txManager.GetQuerier(ctx).Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query reload audit: %w", err)
	}
	defer rows.Close()

	var entries []ReloadEntry
	for rows.Next() {
		var (
			e   ReloadEntry
			gen int64
		)
		err := rows.Scan(
			&e.ID, &e.Trigger, &e.UserID, &gen, &e.UnitCount, &e.ItemCount,
			&e.Failure, &e.Diagnostics, &e.DiagnosticsCompressed, &e.CompressionAlgo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reload audit: %w", err)
		}
		e.Generation = uint64(gen)
		if err := a.decompress(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
