package services

import (
	"log"

	"shindan-api/pkg/models"
	"shindan-api/pkg/storage"
)

// ResultSinkService は診断結果レコードの永続化を担います。
// Excelブックが設定されていればそちらをプライマリ、失敗時はCSVへ
// フォールバックし、障害はイベントログに記録します。保存の失敗は
// 利用者には一切見せません（サイレント保存）。
type ResultSinkService struct {
	book   *storage.WorkbookStore
	csv    *storage.CSVStore
	events *EventLogService
}

// NewResultSinkService は新しいResultSinkServiceを生成します。
func NewResultSinkService(book *storage.WorkbookStore, csv *storage.CSVStore, events *EventLogService) *ResultSinkService {
	return &ResultSinkService{
		book:   book,
		csv:    csv,
		events: events,
	}
}

// Save はレコードを1件追記します。同一セッションで既に保存済みなら何もしません
// （同一送信の二重保存防止）。
//   - プライマリ設定あり: Excelへ追記。失敗したらCSVへ1回だけフォールバックし、
//     WARNイベントを記録。プライマリの再試行はしない。
//   - プライマリ設定なし: 最初からCSVへ追記（正常系なのでイベントは記録しない）。
//   - CSVも失敗: ERRORイベントを記録して握りつぶす。
func (s *ResultSinkService) Save(session *models.DiagnosisSession, record *models.ResultRecord) {
	if session.Saved {
		return
	}
	session.Saved = true

	row := record.Row()
	if s.book.Configured() {
		if err := s.book.AppendRow(storage.SheetResponses, models.ResponseHeader, row); err != nil {
			log.Printf("Excel保存に失敗しCSVへフォールバックします: %v", err)
			s.appendCSV(record, row)
			s.events.Record("WARN", "Excel保存に失敗しCSVへフォールバック: "+err.Error(), map[string]interface{}{
				"reason": err.Error(),
			})
		}
		return
	}
	s.appendCSV(record, row)
}

func (s *ResultSinkService) appendCSV(record *models.ResultRecord, row []string) {
	if err := s.csv.AppendRow(models.ResponseHeader, row); err != nil {
		log.Printf("CSV保存に失敗しました: %v", err)
		s.events.Record("ERROR", "CSV保存に失敗: "+err.Error(), map[string]interface{}{
			"timestamp": record.Timestamp,
			"company":   record.Company,
		})
	}
}
