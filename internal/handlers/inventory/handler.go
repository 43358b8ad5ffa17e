package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/infras/otel"
	"hotel/internal/domains/inventory/model"
	"hotel/internal/domains/inventory/model/dto"
	"hotel/internal/domains/inventory/service"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

type Handler struct {
	maintenance service.Maintenance
	blocks      service.Block
	otel        otel.Otel
}

type CreatedResponse struct {
	ID string `json:"id"`
}

func New(maintenance service.Maintenance, blocks service.Block, otel otel.Otel) Handler {
	return Handler{
		maintenance: maintenance,
		blocks:      blocks,
		otel:        otel,
	}
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/maintenance", func(r chi.Router) {
		r.Post("/", handler.CreateMaintenance)
		r.Get("/", handler.GetMaintenanceRecords)
		r.Get("/{id}", handler.GetMaintenanceByID)
		r.Patch("/{id}", handler.UpdateMaintenance)
		r.Delete("/{id}", handler.DeleteMaintenance)
	})

	router.Route("/availability-blocks", func(r chi.Router) {
		r.Post("/", handler.CreateBlock)
		r.Get("/", handler.GetBlocks)
		r.Get("/{id}", handler.GetBlockByID)
		r.Patch("/{id}", handler.UpdateBlock)
		r.Delete("/{id}", handler.DeleteBlock)
	})
}

// CreateMaintenance schedules maintenance work on a room.
// @Summary Schedule maintenance
// @Description High and urgent work puts the room into maintenance status.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateMaintenanceRequest true "Maintenance"
// @Success 201 {object} response.Data[CreatedResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/maintenance [post]
// @Security BearerAuth
func (handler *Handler) CreateMaintenance(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMaintenance")
	defer scope.End()

	req := dto.CreateMaintenanceRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	id, err := handler.maintenance.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create maintenance record")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, CreatedResponse{ID: id})
}

// GetMaintenanceRecords lists maintenance records.
// @Summary Get maintenance records
// @Tags Inventory
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Search title, description and assignee"
// @Param room_id query string false "Room ID"
// @Param type query string false "Work type"
// @Param priority query string false "Priority"
// @Param status query string false "Status"
// @Success 200 {object} response.Data[dto.GetMaintenanceResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/maintenance [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceRecords(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceRecords")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldScheduledDate, model.FieldPriority, model.FieldStatus, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Search(model.MaintenanceTable, query.Get(constant.RequestParamQuery), model.FieldTitle, model.FieldDescription, model.FieldAssignedTo).
		Eq(model.MaintenanceTable, model.FieldRoomID, query.Get(model.FieldRoomID)).
		Eq(model.MaintenanceTable, model.FieldType, query.Get(model.FieldType)).
		Eq(model.MaintenanceTable, model.FieldPriority, query.Get(model.FieldPriority)).
		Eq(model.MaintenanceTable, model.FieldStatus, query.Get(model.FieldStatus))

	records, err := handler.maintenance.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, records)
}

// GetMaintenanceByID retrieves a maintenance record.
// @Summary Get a maintenance record
// @Tags Inventory
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Data[dto.MaintenanceResponse]
// @Failure 404 {object} response.Error
// @Router /v1/admin/maintenance/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceByID")
	defer scope.End()

	record, err := handler.maintenance.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, record)
}

// UpdateMaintenance edits a record. Completing it without a date stamps now.
// @Summary Update a maintenance record
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param request body dto.UpdateMaintenanceRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/maintenance/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMaintenance(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMaintenance")
	defer scope.End()

	req := dto.UpdateMaintenanceRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.maintenance.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Maintenance record updated successfully")
}

// DeleteMaintenance deletes a maintenance record.
// @Summary Delete a maintenance record
// @Tags Inventory
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/admin/maintenance/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMaintenance(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMaintenance")
	defer scope.End()

	if err := handler.maintenance.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Maintenance record deleted successfully")
}

// CreateBlock holds a room for a date range.
// @Summary Create an availability block
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateBlockRequest true "Block"
// @Success 201 {object} response.Data[CreatedResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/availability-blocks [post]
// @Security BearerAuth
func (handler *Handler) CreateBlock(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBlock")
	defer scope.End()

	req := dto.CreateBlockRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	id, err := handler.blocks.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, CreatedResponse{ID: id})
}

// GetBlocks lists availability blocks.
// @Summary Get availability blocks
// @Tags Inventory
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Room ID"
// @Param type query string false "Block type"
// @Success 200 {object} response.Data[dto.GetBlocksResponse]
// @Router /v1/admin/availability-blocks [get]
// @Security BearerAuth
func (handler *Handler) GetBlocks(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlocks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldStartDate, model.FieldEndDate, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Eq(model.BlockTable, model.FieldRoomID, query.Get(model.FieldRoomID)).
		Eq(model.BlockTable, model.FieldType, query.Get(model.FieldType))

	blocks, err := handler.blocks.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, blocks)
}

// GetBlockByID retrieves an availability block.
// @Summary Get an availability block
// @Tags Inventory
// @Produce json
// @Param id path string true "Block ID"
// @Success 200 {object} response.Data[dto.BlockResponse]
// @Failure 404 {object} response.Error
// @Router /v1/admin/availability-blocks/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBlockByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockByID")
	defer scope.End()

	block, err := handler.blocks.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, block)
}

// UpdateBlock edits an availability block.
// @Summary Update an availability block
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param request body dto.UpdateBlockRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/availability-blocks/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBlock(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBlock")
	defer scope.End()

	req := dto.UpdateBlockRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.blocks.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Availability block updated successfully")
}

// DeleteBlock removes an availability block.
// @Summary Delete an availability block
// @Tags Inventory
// @Produce json
// @Param id path string true "Block ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/admin/availability-blocks/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBlock(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBlock")
	defer scope.End()

	if err := handler.blocks.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Availability block deleted successfully")
}
