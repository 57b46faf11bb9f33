package storage

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVStore はローカルCSVファイルへの追記ストアです（フォールバック保存先）。
// ヘッダー行はファイル新規作成時のみ書き込みます。
type CSVStore struct {
	path string
}

// NewCSVStore は新しいCSVStoreを生成します。
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path はCSVファイルのパスを返します。
func (s *CSVStore) Path() string {
	return s.path
}

// AppendRow は1行追記します。ファイルが無ければヘッダー行とともに作成します。
func (s *CSVStore) AppendRow(header, row []string) error {
	_, statErr := os.Stat(s.path)
	isNew := os.IsNotExist(statErr)
	if statErr != nil && !isNew {
		return fmt.Errorf("CSVファイルの確認に失敗: %w", statErr)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("CSVファイルのオープンに失敗: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("ヘッダー行の書き込みに失敗: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("行の書き込みに失敗: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("CSVの書き込みに失敗: %w", err)
	}
	return nil
}

// ReadRows は全行（ヘッダー含む）を返します。ファイルが無ければ空を返します。
func (s *CSVStore) ReadRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("CSVファイルのオープンに失敗: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSVファイルの解析に失敗: %w", err)
	}
	return rows, nil
}
