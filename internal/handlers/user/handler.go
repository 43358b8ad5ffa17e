package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/infras/otel"
	"hotel/internal/domains/user/model"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/domains/user/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

type CreatedResponse struct {
	ID string `json:"id"`
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Post("/guests", handler.CreateGuest)
	router.Get("/guests", handler.GetGuests)
	router.Get("/guests/{id}", handler.GetGuestByID)
	router.Patch("/guests/{id}", handler.UpdateGuest)
	router.Delete("/guests/{id}", handler.DeleteGuest)
	router.Post("/guests/{id}/loyalty/refresh", handler.RefreshLoyalty)
}

// CreateGuest registers a guest on their behalf.
// @Summary Create a guest
// @Tags Guest
// @Accept json
// @Produce json
// @Param request body dto.CreateGuestRequest true "Guest"
// @Success 201 {object} response.Data[CreatedResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/guests [post]
// @Security BearerAuth
func (handler *Handler) CreateGuest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateGuest")
	defer scope.End()

	req := dto.CreateGuestRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create guest")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, CreatedResponse{ID: id})
}

// GetGuests lists guests.
// @Summary Get all guests
// @Tags Guest
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Search email, name and phone"
// @Param loyalty_status query string false "Loyalty tier"
// @Param is_vip query boolean false "VIP flag"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/guests [get]
// @Security BearerAuth
func (handler *Handler) GetGuests(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldEmail, model.FieldDisplayName, model.FieldTotalSpent, model.FieldTotalBookings, model.FieldLastStayDate, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Search(model.TableName, query.Get(constant.RequestParamQuery), model.FieldEmail, model.FieldDisplayName, model.FieldPhone).
		Eq(model.TableName, model.FieldLoyaltyStatus, query.Get(model.FieldLoyaltyStatus)).
		Eq(model.TableName, model.FieldIsVIP, shared.ConvertStringToBool(query.Get(model.FieldIsVIP)))

	guests, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, guests)
}

// GetGuestByID retrieves a guest.
// @Summary Get a guest by ID
// @Tags Guest
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/guests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetGuestByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestByID")
	defer scope.End()

	guest, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, guest)
}

// UpdateGuest edits a guest profile, VIP flag, notes or tier.
// @Summary Update a guest
// @Tags Guest
// @Accept json
// @Produce json
// @Param id path string true "Guest ID"
// @Param request body dto.UpdateGuestRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/guests/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateGuest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateGuest")
	defer scope.End()

	req := dto.UpdateGuestRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Guest updated successfully")
}

// DeleteGuest deletes a guest account.
// @Summary Delete a guest
// @Tags Guest
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/guests/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteGuest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteGuest")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Guest deleted successfully")
}

// RefreshLoyalty recomputes stay totals and the loyalty tier.
// @Summary Refresh a guest's loyalty tier
// @Tags Guest
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/guests/{id}/loyalty/refresh [post]
// @Security BearerAuth
func (handler *Handler) RefreshLoyalty(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshLoyalty")
	defer scope.End()

	guest, err := handler.service.RefreshLoyalty(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, guest)
}
