package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/dto"
	"github.com/fadilmartias/pitch-analyzer/internal/extractor"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/fadilmartias/pitch-analyzer/internal/usecase"
	"github.com/fadilmartias/pitch-analyzer/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var requiredFields = []string{"company_name", "sector", "stage", "funding_ask"}

type EvaluateHandler struct {
	uc        *usecase.EvaluationUsecase
	uploadDir string
	maxUpload int64
	log       *zap.Logger
}

func NewEvaluateHandler(uc *usecase.EvaluationUsecase, appConfig *config.AppConfig, log *zap.Logger) *EvaluateHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EvaluateHandler{
		uc:        uc,
		uploadDir: appConfig.UploadDir,
		maxUpload: int64(appConfig.MaxUploadMB) * 1024 * 1024,
		log:       log,
	}
}

func (h *EvaluateHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/upload", h.Upload)
	router.Get("/result/:evaluation_id", h.Result)
}

func (h *EvaluateHandler) Upload(c *fiber.Ctx) error {
	if err := h.uc.Ready(); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: err.Error(),
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "file is required",
		}, err)
	}
	if file.Filename == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No filename provided",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extractor.Supported(ext) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Only PDF and PPTX files are supported",
		})
	}
	if h.maxUpload > 0 && file.Size > h.maxUpload {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("file size is too large (max %dMB)", h.maxUpload/(1024*1024)),
		})
	}

	missing := map[string]string{}
	for _, field := range requiredFields {
		if strings.TrimSpace(c.FormValue(field)) == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		formErr := util.NewFormError("missing required fields", missing)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "missing required fields",
			Details: formErr.Errors,
		}, formErr)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save uploaded file",
		}, err)
	}
	savePath := filepath.Join(h.uploadDir, id+ext)
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save uploaded file",
		}, err)
	}

	result, err := h.uc.Submit(c.UserContext(), usecase.Upload{
		EvaluationID: id,
		Path:         savePath,
		Ext:          ext,
		Filename:     file.Filename,
		ContactEmail: strings.TrimSpace(c.FormValue("contact_email")),
		Submission: model.DeckSubmission{
			CompanyName: c.FormValue("company_name"),
			Sector:      c.FormValue("sector"),
			Stage:       c.FormValue("stage"),
			FundingAsk:  c.FormValue("funding_ask"),
			FundThesis:  c.FormValue("fund_thesis"),
		},
	})
	if err != nil {
		h.log.Error("evaluation failed", zap.String("evaluation_id", id), zap.Error(err))
		code := fiber.StatusInternalServerError
		if errors.Is(err, model.ErrUnsupportedFormat) {
			code = fiber.StatusBadRequest
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    code,
			Message: "Evaluation failed: " + err.Error(),
		}, err)
	}

	return c.JSON(dto.UploadResponse{
		EvaluationID: id,
		Result:       result,
	})
}

func (h *EvaluateHandler) Result(c *fiber.Ctx) error {
	id := c.Params("evaluation_id")
	result, err := h.uc.GetResult(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "Evaluation not found",
			})
		}
		h.log.Error("load evaluation failed", zap.String("evaluation_id", id), zap.Error(err))
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load evaluation",
		}, err)
	}
	return c.JSON(result)
}
