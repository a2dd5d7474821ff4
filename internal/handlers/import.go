// internal/handlers/import.go
package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/excel"
	"github.com/pricetrack/backend/internal/services"
	"github.com/pricetrack/backend/internal/utils"
)

type ImportHandler struct {
	ingestService *services.IngestService
	queryService  *services.QueryService
	cfg           *config.Config
}

func NewImportHandler(ingestService *services.IngestService, queryService *services.QueryService, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		ingestService: ingestService,
		queryService:  queryService,
		cfg:           cfg,
	}
}

// POST /imports accepts a multipart upload of one price-list spreadsheet.
func (h *ImportHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Missing file upload", err.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Could not read uploaded file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.BadRequestResponse(c, "Could not read uploaded file", nil)
		return
	}

	source := excel.NewBytesSource(data, fileHeader.Filename, h.cfg.Import)
	stats, err := h.ingestService.IngestBatch(c.Request.Context(), source)
	if err != nil {
		if apperrors.IsStorage(err) {
			respondError(c, "import", err)
		} else {
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"stats":   stats,
		"summary": stats.Summary(h.cfg.Import.MaxErrors),
	})
}

type ImportRecord struct {
	ProductNumber string `json:"product_number"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Unit          string `json:"unit"`
	Price         string `json:"price"`
	EffectiveDate string `json:"effective_date" validate:"omitempty,datetime=2006-01-02"`
}

type ImportRecordsRequest struct {
	SourceLabel   string         `json:"source_label" validate:"required"`
	EffectiveDate string         `json:"effective_date" validate:"omitempty,datetime=2006-01-02"`
	Records       []ImportRecord `json:"records" validate:"required,min=1,dive"`
}

// POST /imports/records takes pre-normalized records from producers that do not
// go through a spreadsheet.
func (h *ImportHandler) IngestRecords(c *gin.Context) {
	var req ImportRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	var batchDate time.Time
	if req.EffectiveDate != "" {
		batchDate, _ = time.Parse("2006-01-02", req.EffectiveDate)
	}

	records := make([]services.RawRecord, 0, len(req.Records))
	for _, r := range req.Records {
		rec := services.RawRecord{
			ProductNumber: r.ProductNumber,
			Description:   r.Description,
			Category:      r.Category,
			Unit:          r.Unit,
			Price:         r.Price,
		}
		if r.EffectiveDate != "" {
			rec.EffectiveDate, _ = time.Parse("2006-01-02", r.EffectiveDate)
		}
		records = append(records, rec)
	}

	source := services.NewSliceSource(req.SourceLabel, batchDate, records)
	stats, err := h.ingestService.IngestBatch(c.Request.Context(), source)
	if err != nil {
		respondError(c, "import", err)
		return
	}

	utils.CreatedResponse(c, gin.H{"stats": stats})
}

// GET /imports
func (h *ImportHandler) ListImports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	runs, total, err := h.queryService.ListImportRuns(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, "import run", err)
		return
	}

	result := utils.CreatePaginationResult(runs, total, params)
	utils.PaginatedResponse(c, result)
}
