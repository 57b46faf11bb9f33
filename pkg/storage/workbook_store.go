package storage

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// 共有Excelブック内のシート名
const (
	SheetResponses = "responses"
	SheetEvents    = "events"
)

// WorkbookStore は共有Excelブックへの追記ストアです（プライマリ保存先）。
// パスには共有ドライブ上のブックを指定する想定で、開けない・書けない場合は
// 呼び出し側がCSVフォールバックに切り替えます。
type WorkbookStore struct {
	path string
}

// NewWorkbookStore は新しいWorkbookStoreを生成します。pathが空の場合は未設定扱いです。
func NewWorkbookStore(path string) *WorkbookStore {
	return &WorkbookStore{path: path}
}

// Configured はブックのパスが設定されているかを返します。
func (s *WorkbookStore) Configured() bool {
	return s.path != ""
}

// AppendRow は指定シートに1行追記します。ブック・シートが無ければ作成し、
// シートが空の場合はヘッダー行を先に書き込みます（安全網）。
func (s *WorkbookStore) AppendRow(sheet string, header, row []string) error {
	if !s.Configured() {
		return fmt.Errorf("Excelブックのパスが未設定です")
	}

	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("シート名が不正です: %w", err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("シート %s の作成に失敗: %w", sheet, err)
		}
	}
	// 新規ブックのデフォルトシートは不要なので削除
	if created && sheet != "Sheet1" {
		if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
			_ = f.DeleteSheet("Sheet1")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("シート %s の読み込みに失敗: %w", sheet, err)
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		headerRow := make([]interface{}, len(header))
		for i, h := range header {
			headerRow[i] = h
		}
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetSheetRow(sheet, cell, &headerRow); err != nil {
			return fmt.Errorf("ヘッダー行の書き込みに失敗: %w", err)
		}
		next = 2
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return fmt.Errorf("セル座標の計算に失敗: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("行の書き込みに失敗: %w", err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("Excelブックの保存に失敗: %w", err)
	}
	return nil
}

// ReadRows は指定シートの全行（ヘッダー含む）を返します。
// ブックやシートが存在しない場合は空を返します。
func (s *WorkbookStore) ReadRows(sheet string) ([][]string, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("Excelブックのパスが未設定です")
	}
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("Excelブックの確認に失敗: %w", err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("Excelブックの読み込みに失敗: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("シート %s の行取得に失敗: %w", sheet, err)
	}
	return rows, nil
}

// open は既存ブックを開くか、無ければ新規作成します。
func (s *WorkbookStore) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		f, err := excelize.OpenFile(s.path)
		if err != nil {
			return nil, false, fmt.Errorf("Excelブックのオープンに失敗: %w", err)
		}
		return f, false, nil
	} else if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("Excelブックの確認に失敗: %w", err)
	}
	return excelize.NewFile(), true, nil
}
