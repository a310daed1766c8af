package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/i18n"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/pkg/export"
	"github.com/rawa-tech/zagros-erp/pkg/storage"
)

type exportProductReader interface {
	ListAll(ctx context.Context, status *models.Status) ([]models.Product, error)
}

type exportOrderReader interface {
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

// ExportResult references a rendered export file.
type ExportResult struct {
	RelPath string
	URL     string
}

// ExportService renders report datasets to CSV or PDF files on disk and signs
// download URLs for them.
type ExportService struct {
	products   exportProductReader
	orders     exportOrderReader
	translator *i18n.Translator
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	files      *storage.LocalStorage
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	basePath   string
}

// NewExportService constructs the exporter.
func NewExportService(products exportProductReader, orders exportOrderReader, translator *i18n.Translator, files *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, basePath string) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if basePath == "" {
		basePath = "/api/v1/reports/download"
	}
	return &ExportService{
		products:   products,
		orders:     orders,
		translator: translator,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		files:      files,
		signer:     signer,
		logger:     logger,
		basePath:   basePath,
	}
}

// Generate renders the dataset for a job and returns the signed download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	var (
		data  export.Dataset
		title string
		err   error
	)
	locale := job.Params.Locale
	switch job.Type {
	case models.ReportTypeInventory:
		data, err = s.inventoryDataset(ctx, locale)
		title = s.translate("nav.products", locale)
	case models.ReportTypeSales:
		data, err = s.salesDataset(ctx, job.Params)
		title = s.translate("nav.sales", locale)
	default:
		return nil, fmt.Errorf("unsupported report type %q", job.Type)
	}
	if err != nil {
		return nil, err
	}

	var payload []byte
	ext := "csv"
	switch job.Params.Format {
	case models.ReportFormatPDF:
		subtitle := time.Now().UTC().Format("2006-01-02 15:04 MST")
		payload, err = s.pdf.Render(data, title, subtitle)
		ext = "pdf"
	default:
		payload, err = s.csv.Render(data)
	}
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	relPath := fmt.Sprintf("%s/%s.%s", job.Type, job.ID, ext)
	if _, err := s.files.Save(relPath, payload); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign report url: %w", err)
	}
	return &ExportResult{
		RelPath: relPath,
		URL:     fmt.Sprintf("%s/%s", s.basePath, token),
	}, nil
}

// ParseToken validates a signed download token.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle on a stored export file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.files.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.files.Delete(relPath)
}

// Cleanup removes export files older than the TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.files.CleanupOlderThan(ttl)
}

func (s *ExportService) inventoryDataset(ctx context.Context, locale string) (export.Dataset, error) {
	products, err := s.products.ListAll(ctx, nil)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load inventory: %w", err)
	}

	headers := []string{
		s.translate("products.sku", locale),
		s.translate("products.name", locale),
		s.translate("products.quantity", locale),
		s.translate("products.price", locale),
		s.translate("orders.status", locale),
	}
	rows := make([]map[string]string, 0, len(products))
	for i := range products {
		p := &products[i]
		rows = append(rows, map[string]string{
			headers[0]: p.SKU,
			headers[1]: p.NameFor(locale),
			headers[2]: strconv.Itoa(p.Quantity),
			headers[3]: formatAmount(p.SellPrice),
			headers[4]: string(p.Status),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *ExportService) salesDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	to := time.Now().UTC()
	if params.To != nil {
		to = *params.To
	}
	from := to.AddDate(0, -1, 0)
	if params.From != nil {
		from = *params.From
	}

	orders, err := s.orders.ListCompletedBetween(ctx, from, to)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load sales: %w", err)
	}

	locale := params.Locale
	headers := []string{
		s.translate("orders.order_no", locale),
		s.translate("orders.date", locale),
		s.translate("orders.total", locale),
	}

	rows := make([]map[string]string, 0, len(orders))
	grandTotal := 0.0
	for i := range orders {
		o := &orders[i]
		rows = append(rows, map[string]string{
			headers[0]: o.OrderNo,
			headers[1]: o.CreatedAt.Format("2006-01-02"),
			headers[2]: formatAmount(o.Total),
		})
		grandTotal += o.Total
	}
	summary := map[string]string{
		headers[0]: s.translate("orders.total", locale),
		headers[2]: formatAmount(grandTotal),
	}
	return export.Dataset{Headers: headers, Rows: rows, Summary: summary}, nil
}

func (s *ExportService) translate(key, locale string) string {
	if s.translator == nil {
		return key
	}
	return s.translator.Translate(key, locale)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
