package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/metrics"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 导出格式
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

const exportSheetName = "Leads"

var exportHeaders = []string{
	"Name", "Email", "Phone", "Source", "Status", "Score", "Tags", "Created At",
}

// LeadExport 导出文件
type LeadExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImportLeadsFile 从上传的 CSV/XLSX 文件导入线索
func (s *LeadService) ImportLeadsFile(ctx context.Context, filename string, r io.Reader, actor primitive.ObjectID) (int, error) {
	records, err := ParseImportFile(filename, r)
	if err != nil {
		return 0, err
	}
	return s.BulkImport(ctx, records, actor)
}

// ParseImportFile 按扩展名解析导入文件，首行为表头（name,email,phone,tags）
func ParseImportFile(filename string, r io.Reader) ([]models.ImportRecord, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err = reader.ReadAll()
	case ".xlsx":
		rows, err = readXLSXRows(r)
	default:
		return nil, utils.CreateBadRequestError("Unsupported file type, use .csv or .xlsx")
	}
	if err != nil {
		return nil, utils.CreateBadRequestError(fmt.Sprintf("Could not read file: %v", err))
	}

	return rowsToImportRecords(rows)
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func rowsToImportRecords(rows [][]string) ([]models.ImportRecord, error) {
	if len(rows) == 0 {
		return nil, utils.CreateBadRequestError("File is empty")
	}

	columns := map[string]int{}
	for i, header := range rows[0] {
		header = strings.TrimPrefix(header, "\ufeff")
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, utils.CreateBadRequestError("Missing column: name")
	}
	if _, ok := columns["email"]; !ok {
		return nil, utils.CreateBadRequestError("Missing column: email")
	}

	cell := func(row []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]models.ImportRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := models.ImportRecord{
			Name:  cell(row, "name"),
			Email: cell(row, "email"),
			Phone: cell(row, "phone"),
		}
		if tags := cell(row, "tags"); tags != "" {
			rec.Tags = strings.Split(tags, ";")
		}
		records = append(records, rec)
	}
	return records, nil
}

// ExportLeads 导出全部线索
func (s *LeadService) ExportLeads(ctx context.Context, format string) (*LeadExport, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = ExportFormatCSV
	}

	var build func([]models.Lead) ([]byte, error)
	var contentType string
	switch format {
	case ExportFormatCSV:
		build, contentType = buildLeadsCSV, "text/csv"
	case ExportFormatXLSX:
		build, contentType = buildLeadsXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, utils.CreateBadRequestError("Unsupported export format: " + format)
	}

	leads, err := s.leads.List(ctx, "")
	if err != nil {
		return nil, err
	}

	data, err := build(leads)
	if err != nil {
		return nil, err
	}

	metrics.RecordLeadsExported(format)
	return &LeadExport{
		Filename:    fmt.Sprintf("leads_%s.%s", s.now().Format("20060102"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func leadRow(lead models.Lead) []string {
	return []string{
		csvCell(lead.Name),
		csvCell(lead.Email),
		csvCell(lead.Phone),
		csvCell(lead.Source),
		string(lead.Status),
		strconv.Itoa(lead.Score),
		csvCell(strings.Join(lead.Tags, ";")),
		lead.CreatedAt.Format(time.RFC3339),
	}
}

// csvCell 以公式字符开头的单元格加单引号前缀，防止表格软件执行公开表单写入的公式
func csvCell(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

func buildLeadsCSV(leads []models.Lead) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("写入表头失败: %w", err)
	}
	for _, lead := range leads {
		if err := writer.Write(leadRow(lead)); err != nil {
			return nil, fmt.Errorf("写入数据失败: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildLeadsXLSX(leads []models.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("创建样式失败: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, lead := range leads {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Source,
			string(lead.Status),
			lead.Score,
			strings.Join(lead.Tags, ";"),
			lead.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成Excel失败: %w", err)
	}
	return buf.Bytes(), nil
}
