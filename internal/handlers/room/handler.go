package room

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

const (
	queryMinPrice = "min_price"
	queryMaxPrice = "max_price"
	queryGuests   = "guests"
	formFeatures  = "features"
	formAmenities = "amenities"
	formRemove    = "remove_images"
)

type Handler struct {
	service service.Room
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Room, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) PublicRouter(router chi.Router) {
	router.Get("/rooms", handler.GetRooms)
	router.Get("/rooms/{id}", handler.GetRoomByID)
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Get("/rooms", handler.GetRooms)
	router.Post("/rooms", handler.CreateRoom)
	router.Patch("/rooms/{id}", handler.UpdateRoom)
	router.Patch("/rooms/{id}/status", handler.UpdateRoomStatus)
	router.Delete("/rooms/{id}", handler.DeleteRoom)
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a room. Every file in `images` is uploaded concurrently.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Room name"
// @Param type formData string true "Room type"
// @Param description formData string false "Room description"
// @Param price formData number true "Nightly price"
// @Param capacity formData integer true "Maximum guests"
// @Param size formData number false "Size in square meters"
// @Param amenities formData []string false "Amenities" collectionFormat(multi)
// @Param availability formData boolean false "Bookable"
// @Param status formData string false "Inventory status" Enums(available, occupied, maintenance, cleaning)
// @Param features formData string false "Features as JSON"
// @Param images formData file false "Room images"
// @Success 201 {object} response.Message "Room created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreateRoomRequest{
		Name:         request.FormValue(model.FieldName),
		Type:         request.FormValue(model.FieldType),
		Description:  request.FormValue(model.FieldDescription),
		Amenities:    request.MultipartForm.Value[formAmenities],
		Availability: shared.ConvertStringToBool(request.FormValue(model.FieldAvailability)),
		Status:       model.Status(request.FormValue(model.FieldStatus)),
		Images:       request.MultipartForm.File[constant.FormImages],
	}

	var err error

	if req.Price, err = shared.ConvertStringToFloat(request.FormValue(model.FieldPrice)); err != nil {
		response.WithError(writer, failure.BadRequestFromString("price must be a number"))

		return
	}

	if req.Capacity, err = shared.ConvertStringToInt(request.FormValue(model.FieldCapacity)); err != nil {
		response.WithError(writer, failure.BadRequestFromString("capacity must be a number"))

		return
	}

	if size := request.FormValue("size"); size != constant.Empty {
		if req.Size, err = shared.ConvertStringToFloat(size); err != nil {
			response.WithError(writer, failure.BadRequestFromString("size must be a number"))

			return
		}
	}

	if features := request.FormValue(formFeatures); features != constant.Empty {
		if err := json.Unmarshal([]byte(features), &req.Features); err != nil {
			response.WithError(writer, failure.BadRequestFromString("features must be a JSON object"))

			return
		}
	}

	if err := validateUpload(handler.cfg, &req, req.Images); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Room created successfully")
}

// GetRooms lists rooms.
// @Summary Get all rooms
// @Description List rooms with search, filters and pagination.
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Search name, type and description"
// @Param type query string false "Room type"
// @Param status query string false "Inventory status"
// @Param availability query boolean false "Bookable rooms only"
// @Param min_price query number false "Minimum nightly price"
// @Param max_price query number false "Maximum nightly price"
// @Param guests query integer false "Rooms that fit this many guests"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldName, model.FieldPrice, model.FieldCapacity, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Search(model.TableName, query.Get(constant.RequestParamQuery), model.FieldName, model.FieldType, model.FieldDescription).
		Eq(model.TableName, model.FieldType, query.Get(model.FieldType)).
		Eq(model.TableName, model.FieldStatus, query.Get(model.FieldStatus)).
		Eq(model.TableName, model.FieldAvailability, shared.ConvertStringToBool(query.Get(model.FieldAvailability)))

	if minPrice, err := shared.ConvertStringToFloat(query.Get(queryMinPrice)); err == nil {
		filter.Cmp(model.TableName, model.FieldPrice, gDto.FilterOperatorGreaterEq, queryMinPrice, minPrice)
	}

	if maxPrice, err := shared.ConvertStringToFloat(query.Get(queryMaxPrice)); err == nil {
		filter.Cmp(model.TableName, model.FieldPrice, gDto.FilterOperatorLessEq, queryMaxPrice, maxPrice)
	}

	if guests, err := shared.ConvertStringToInt(query.Get(queryGuests)); err == nil && guests > 0 {
		filter.Cmp(model.TableName, model.FieldCapacity, gDto.FilterOperatorGreaterEq, queryGuests, guests)
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, room)
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Description Only the submitted fields change. Uploaded images are appended and `remove_images` URLs are dropped.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param name formData string false "Room name"
// @Param type formData string false "Room type"
// @Param description formData string false "Room description"
// @Param price formData number false "Nightly price"
// @Param capacity formData integer false "Maximum guests"
// @Param size formData number false "Size in square meters"
// @Param amenities formData []string false "Amenities, replaces the list" collectionFormat(multi)
// @Param availability formData boolean false "Bookable"
// @Param status formData string false "Inventory status"
// @Param features formData string false "Features as JSON"
// @Param remove_images formData []string false "Image URLs to remove" collectionFormat(multi)
// @Param images formData file false "Images to add"
// @Success 200 {object} response.Message "Room updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.UpdateRoomRequest{
		Name:         request.FormValue(model.FieldName),
		Type:         request.FormValue(model.FieldType),
		Description:  request.FormValue(model.FieldDescription),
		Amenities:    request.MultipartForm.Value[formAmenities],
		Availability: shared.ConvertStringToBool(request.FormValue(model.FieldAvailability)),
		Status:       model.Status(request.FormValue(model.FieldStatus)),
		RemoveImages: request.MultipartForm.Value[formRemove],
		Images:       request.MultipartForm.File[constant.FormImages],
	}

	if price, err := shared.ConvertStringToFloat(request.FormValue(model.FieldPrice)); err == nil {
		req.Price = &price
	}

	if capacity, err := shared.ConvertStringToInt(request.FormValue(model.FieldCapacity)); err == nil {
		req.Capacity = &capacity
	}

	if size, err := shared.ConvertStringToFloat(request.FormValue("size")); err == nil {
		req.Size = &size
	}

	if features := request.FormValue(formFeatures); features != constant.Empty {
		var parsed model.Features
		if err := json.Unmarshal([]byte(features), &parsed); err != nil {
			response.WithError(writer, failure.BadRequestFromString("features must be a JSON object"))

			return
		}

		jsonb := gModel.NewJSONB(parsed)
		req.Features = &jsonb
	}

	if err := validateUpload(handler.cfg, &req, req.Images); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Room updated successfully")
}

// UpdateRoomStatus sets the inventory status of a room.
// @Summary Update room status
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomStatusRequest true "New status"
// @Success 200 {object} response.Message "Room status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/rooms/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoomStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoomStatus")
	defer scope.End()

	req := dto.UpdateRoomStatusRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Room status updated successfully")
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Room deleted successfully")
}

func validateUpload[T any](cfg *config.Config, req *T, files []*multipart.FileHeader) error {
	if err := validator.ValidateStruct(req); err != nil {
		return err
	}

	s3Cfg := cfg.External.S3

	return validator.ValidateFiles(files, s3Cfg.MaxUploadFiles, s3Cfg.MaxFileSizeMB, validator.ImageTypes)
}
