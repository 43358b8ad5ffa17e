package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel/infras/otel"
	"hotel/internal/domains/settings/model/dto"
	"hotel/internal/domains/settings/service"
	"hotel/shared/constant"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

type Handler struct {
	service service.Settings
	otel    otel.Otel
}

func New(service service.Settings, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) PublicRouter(router chi.Router) {
	router.Get("/settings", handler.GetPublicSettings)
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Get("/settings", handler.GetSettings)
	router.Put("/settings", handler.UpdateSettings)
}

// GetPublicSettings returns hotel information and the add-on catalogue.
// @Summary Get hotel information
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.PublicSettingsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/settings [get]
func (handler *Handler) GetPublicSettings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublicSettings")
	defer scope.End()

	settings, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, settings.PublicSettingsResponse)
}

// GetSettings returns the full settings record.
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.SettingsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/settings [get]
// @Security BearerAuth
func (handler *Handler) GetSettings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSettings")
	defer scope.End()

	settings, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, settings)
}

// UpdateSettings changes hotel settings.
// @Summary Update settings
// @Description Submitted fields replace the stored ones. `logo` may be an image data URI.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/settings [put]
// @Security BearerAuth
func (handler *Handler) UpdateSettings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSettings")
	defer scope.End()

	req := dto.UpdateSettingsRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Settings updated successfully")
}
