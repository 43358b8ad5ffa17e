package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel/infras/otel"
	"hotel/internal/domains/analytics/service"
	"hotel/shared/constant"
	"hotel/transport/http/response"
)

type Handler struct {
	service service.Analytics
	otel    otel.Otel
}

func New(service service.Analytics, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/analytics", func(r chi.Router) {
		r.Get("/", handler.GetReport)
		r.Get("/dashboard", handler.GetDashboard)
		r.Get("/export", handler.Export)
	})
}

// GetReport returns revenue, booking, room and guest analytics.
// @Summary Get analytics report
// @Description Bookings created since the first day of the month `range` months ago are aggregated.
// @Tags Analytics
// @Produce json
// @Param range query string false "Time range" Enums(1month, 3months, 6months, 1year) default(6months)
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/analytics [get]
// @Security BearerAuth
func (handler *Handler) GetReport(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReport")
	defer scope.End()

	report, err := handler.service.Report(ctx, request.URL.Query().Get(constant.RequestParamRange))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, report)
}

// GetDashboard returns the admin landing page figures.
// @Summary Get dashboard stats
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/analytics/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	stats, err := handler.service.Dashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, stats)
}

// Export downloads the analytics report.
// @Summary Export analytics report
// @Tags Analytics
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param range query string false "Time range" Enums(1month, 3months, 6months, 1year) default(6months)
// @Param format query string false "File format" Enums(json, xlsx) default(json)
// @Success 200 {file} file
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/analytics/export [get]
// @Security BearerAuth
func (handler *Handler) Export(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Export")
	defer scope.End()

	query := request.URL.Query()

	file, err := handler.service.Export(ctx, query.Get(constant.RequestParamRange), query.Get(constant.RequestParamFormat))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithFile(writer, file.ContentType, file.Name, file.Data)
}
