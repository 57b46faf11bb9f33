package services

import (
	"encoding/json"
	"log"
	"time"

	"shindan-api/pkg/models"
	"shindan-api/pkg/storage"
)

// RecentEventLimit は管理者ビューに表示するイベントの最大件数です。
const RecentEventLimit = 50

// EventLogService は障害・警告を管理者だけが後から確認できるように記録します。
// 保存はExcelブック優先・CSVフォールバックの二段構えで、記録自体の失敗は
// 利用者のフローに影響させず握りつぶします（標準ログにのみ出力）。
type EventLogService struct {
	book *storage.WorkbookStore
	csv  *storage.CSVStore
	now  func() time.Time
}

// NewEventLogService は新しいEventLogServiceを生成します。
func NewEventLogService(book *storage.WorkbookStore, csv *storage.CSVStore) *EventLogService {
	return &EventLogService{
		book: book,
		csv:  csv,
		now:  time.Now,
	}
}

// Record はイベントを1件記録します。画面には何も出しません。
func (s *EventLogService) Record(level, message string, payload map[string]interface{}) {
	payloadStr := ""
	if len(payload) > 0 {
		if data, err := json.Marshal(payload); err == nil {
			payloadStr = string(data)
		}
	}

	evt := models.DiagnosticEvent{
		Timestamp: s.now().In(models.JST).Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Payload:   payloadStr,
	}

	if s.book.Configured() {
		if err := s.book.AppendRow(storage.SheetEvents, models.EventHeader, evt.Row()); err == nil {
			return
		}
		// Excelに書けない場合もCSVへ落とす
	}
	if err := s.csv.AppendRow(models.EventHeader, evt.Row()); err != nil {
		log.Printf("警告: イベントログの記録に失敗しました: %v", err)
	}
}

// Recent は最新limit件のイベントを新しい順で返します。
// Excelブックにイベントがあればそちらを、無ければCSVを読みます。
func (s *EventLogService) Recent(limit int) []models.DiagnosticEvent {
	rows := s.readRows()
	if len(rows) <= 1 {
		return []models.DiagnosticEvent{}
	}

	dataRows := rows[1:] // ヘッダー行を除く
	if len(dataRows) > limit {
		dataRows = dataRows[len(dataRows)-limit:]
	}

	events := make([]models.DiagnosticEvent, 0, len(dataRows))
	for i := len(dataRows) - 1; i >= 0; i-- {
		row := dataRows[i]
		evt := models.DiagnosticEvent{}
		if len(row) > 0 {
			evt.Timestamp = row[0]
		}
		if len(row) > 1 {
			evt.Level = row[1]
		}
		if len(row) > 2 {
			evt.Message = row[2]
		}
		if len(row) > 3 {
			evt.Payload = row[3]
		}
		events = append(events, evt)
	}
	return events
}

func (s *EventLogService) readRows() [][]string {
	if s.book.Configured() {
		if rows, err := s.book.ReadRows(storage.SheetEvents); err == nil && len(rows) > 0 {
			return rows
		}
	}
	rows, err := s.csv.ReadRows()
	if err != nil {
		log.Printf("警告: イベントログの読み込みに失敗しました: %v", err)
		return nil
	}
	return rows
}
