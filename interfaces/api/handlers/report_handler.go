package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"smart-attendance/domain/attendance"
	"smart-attendance/domain/services"
	"smart-attendance/pkg/logger"
	"smart-attendance/pkg/utils"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// MonthlyCSV streams the per-student monthly rollup as a CSV download
func (h *ReportHandler) MonthlyCSV(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return utils.BadRequestResponse(c, "month query parameter is required (YYYY-MM)", nil)
	}

	data, err := h.reportService.MonthlyCSV(c.Context(), month)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidDate) {
			return utils.BadRequestResponse(c, "Invalid month, expected YYYY-MM", err)
		}
		logger.Error(logger.CategoryReport, "monthly_csv_failed", "Monthly CSV export failed", err, map[string]interface{}{"month": month})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export report", err)
	}

	logger.Report("monthly_csv", "Monthly CSV exported", map[string]interface{}{"month": month, "bytes": len(data)})

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="attendance-%s.csv"`, month))
	return c.Send(data)
}

// RawLogCSV streams every stored attendance record as a CSV download
func (h *ReportHandler) RawLogCSV(c *fiber.Ctx) error {
	data, err := h.reportService.RawLogCSV(c.Context())
	if err != nil {
		logger.Error(logger.CategoryReport, "raw_log_csv_failed", "Raw log CSV export failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export log", err)
	}

	logger.Report("raw_log_csv", "Raw attendance log exported", map[string]interface{}{"bytes": len(data)})

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance-log.csv"`)
	return c.Send(data)
}
