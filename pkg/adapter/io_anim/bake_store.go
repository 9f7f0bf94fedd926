// 指示: miu200521358
package io_anim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miu200521358/mu_anim_helpers/pkg/domain/bake"
	_ "modernc.org/sqlite"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// BakeStore は焼き込み結果を実行IDごとにSQLiteへ記録する。
type BakeStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// BakeRecord は記録済みの焼き込み結果の概要を表す。
type BakeRecord struct {
	ID         int64
	RunID      string
	Modifier   string
	ClipName   string
	FrameCount int
	TrackCount int
	CurveCount int
	Removed    []string
	Warnings   []string
	CreatedAt  time.Time
}

// OpenBakeStore はSQLiteの記録先を開き、スキーマを最新化する。
func OpenBakeStore(path string) (*BakeStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("記録先パスが未指定です")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("記録先を開けませんでした: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("PRAGMAの適用に失敗しました %q: %w", pragma, err)
		}
	}

	store := &BakeStore{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close は接続を閉じる。
func (s *BakeStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path は記録先パスを返す。
func (s *BakeStore) Path() string {
	return s.path
}

// Record は焼き込み結果を記録する。
func (s *BakeStore) Record(runID string, modifierName string, clipName string, output *bake.Output) error {
	return s.RecordContext(context.Background(), runID, modifierName, clipName, output)
}

// RecordContext は焼き込み結果を1トランザクションで記録する。
func (s *BakeStore) RecordContext(ctx context.Context, runID string, modifierName string, clipName string, output *bake.Output) error {
	if output == nil {
		return fmt.Errorf("記録対象の出力が未設定です")
	}
	return retryOnBusy(ctx, func() error {
		return s.record(ctx, runID, modifierName, clipName, output)
	})
}

func (s *BakeStore) record(ctx context.Context, runID string, modifierName string, clipName string, output *bake.Output) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("記録の開始に失敗しました: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bake_runs (run_id, modifier, clip_name, frame_count, created_at) VALUES (?, ?, ?, ?, ?)",
		runID, modifierName, clipName, output.FrameCount(), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("実行の記録に失敗しました: %w", err)
	}
	bakeID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("実行IDの取得に失敗しました: %w", err)
	}

	trackStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bake_track_keys (bake_id, bone, frame, tx, ty, tz, rx, ry, rz, rw, sx, sy, sz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("トラック記録の準備に失敗しました: %w", err)
	}
	defer trackStmt.Close()
	for _, name := range output.TrackNames() {
		track, _ := output.Track(name)
		for frame := 0; frame < track.Len(); frame++ {
			key := track.Key(frame)
			_, err := trackStmt.ExecContext(ctx, bakeID, name, frame,
				key.Translation.X, key.Translation.Y, key.Translation.Z,
				key.Rotation.X(), key.Rotation.Y(), key.Rotation.Z(), key.Rotation.W(),
				key.Scale.X, key.Scale.Y, key.Scale.Z)
			if err != nil {
				return fmt.Errorf("トラックの記録に失敗しました: %s: %w", name, err)
			}
		}
	}

	for _, curve := range output.Curves() {
		for seq, key := range curve.Keys {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO bake_curve_keys (bake_id, curve, seq, time, value) VALUES (?, ?, ?, ?, ?)",
				bakeID, curve.Name, seq, key.Time, key.Value); err != nil {
				return fmt.Errorf("カーブの記録に失敗しました: %s: %w", curve.Name, err)
			}
		}
	}
	for _, name := range output.RemovedCurves() {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO bake_removed_curves (bake_id, curve) VALUES (?, ?)", bakeID, name); err != nil {
			return fmt.Errorf("削除カーブの記録に失敗しました: %w", err)
		}
	}
	for _, warningID := range output.Warnings() {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO bake_warnings (bake_id, warning_id) VALUES (?, ?)", bakeID, warningID); err != nil {
			return fmt.Errorf("警告の記録に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("記録の確定に失敗しました: %w", err)
	}
	return nil
}

// Records は実行IDの記録を記録順に返す。runID が空の場合は全件を返す。
func (s *BakeStore) Records(ctx context.Context, runID string) ([]BakeRecord, error) {
	query := `SELECT r.id, r.run_id, r.modifier, r.clip_name, r.frame_count, r.created_at,
		(SELECT COUNT(DISTINCT bone) FROM bake_track_keys t WHERE t.bake_id = r.id),
		(SELECT COUNT(DISTINCT curve) FROM bake_curve_keys c WHERE c.bake_id = r.id)
		FROM bake_runs r`
	args := []any{}
	if strings.TrimSpace(runID) != "" {
		query += " WHERE r.run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY r.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	records := []BakeRecord{}
	for rows.Next() {
		var (
			record    BakeRecord
			createdAt string
		)
		if err := rows.Scan(&record.ID, &record.RunID, &record.Modifier, &record.ClipName,
			&record.FrameCount, &createdAt, &record.TrackCount, &record.CurveCount); err != nil {
			return nil, fmt.Errorf("記録の読み取りに失敗しました: %w", err)
		}
		record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記録の読み取りに失敗しました: %w", err)
	}

	for i := range records {
		if records[i].Removed, err = s.stringColumn(ctx,
			"SELECT curve FROM bake_removed_curves WHERE bake_id = ? ORDER BY curve", records[i].ID); err != nil {
			return nil, err
		}
		if records[i].Warnings, err = s.stringColumn(ctx,
			"SELECT warning_id FROM bake_warnings WHERE bake_id = ? ORDER BY warning_id", records[i].ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *BakeStore) stringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()
	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("記録の読み取りに失敗しました: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy はSQLiteのビジー応答に対して間隔を広げながら再試行する。
func retryOnBusy(ctx context.Context, op func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
