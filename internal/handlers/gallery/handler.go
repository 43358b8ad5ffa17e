package gallery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/gallery/model"
	"hotel/internal/domains/gallery/model/dto"
	"hotel/internal/domains/gallery/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

type Handler struct {
	service service.Gallery
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Gallery, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) PublicRouter(router chi.Router) {
	router.Get("/gallery", handler.GetImages)
	router.Get("/gallery/{id}", handler.GetImageByID)
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/gallery", func(r chi.Router) {
		r.Post("/", handler.CreateImages)
		r.Patch("/{id}", handler.UpdateImage)
		r.Delete("/{id}", handler.DeleteImage)
	})
}

// CreateImages uploads one or more photos into a room's gallery.
// @Summary Upload gallery images
// @Description Every file in `files` is uploaded concurrently and becomes one entry.
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Param room_id formData string true "Room ID"
// @Param image_type formData string true "Image type" Enums(main, bedroom, bathroom, amenity, view)
// @Param image_title formData string false "Title"
// @Param image_description formData string false "Description"
// @Param is_main_image formData boolean false "Make the first file the main image"
// @Param files formData file true "Images"
// @Success 201 {object} response.Data[dto.CreatedResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/gallery [post]
// @Security BearerAuth
func (handler *Handler) CreateImages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateImages")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreateImagesRequest{
		RoomID:      request.FormValue(model.FieldRoomID),
		ImageType:   model.ImageType(request.FormValue(model.FieldImageType)),
		Title:       request.FormValue(model.FieldTitle),
		Description: request.FormValue(model.FieldDescription),
		Files:       request.MultipartForm.File[constant.FormFiles],
	}

	if isMain := shared.ConvertStringToBool(request.FormValue(model.FieldIsMainImage)); isMain != nil {
		req.IsMainImage = *isMain
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	s3Cfg := handler.cfg.External.S3
	if err := validator.ValidateFiles(req.Files, s3Cfg.MaxUploadFiles, s3Cfg.MaxFileSizeMB, validator.ImageTypes); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	ids, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create gallery images")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, dto.CreatedResponse{IDs: ids})
}

// GetImages lists gallery images.
// @Summary Get gallery images
// @Tags Gallery
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Room ID"
// @Param image_type query string false "Image type"
// @Success 200 {object} response.Data[dto.GetImagesResponse]
// @Failure 500 {object} response.Error
// @Router /v1/gallery [get]
func (handler *Handler) GetImages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetImages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldImageType, model.FieldIsMainImage, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Eq(model.TableName, model.FieldRoomID, query.Get(model.FieldRoomID)).
		Eq(model.TableName, model.FieldImageType, query.Get(model.FieldImageType))

	images, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, images)
}

// GetImageByID retrieves a gallery image.
// @Summary Get a gallery image
// @Tags Gallery
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} response.Data[dto.ImageResponse]
// @Failure 404 {object} response.Error
// @Router /v1/gallery/{id} [get]
func (handler *Handler) GetImageByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetImageByID")
	defer scope.End()

	image, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, image)
}

// UpdateImage edits an image. Marking it main clears the room's other main image.
// @Summary Update a gallery image
// @Tags Gallery
// @Accept json
// @Produce json
// @Param id path string true "Image ID"
// @Param request body dto.UpdateImageRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/gallery/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateImage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateImage")
	defer scope.End()

	req := dto.UpdateImageRequest{}
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

	response.WithMessage(writer, http.StatusOK, "Gallery image updated successfully")
}

// DeleteImage removes an image and its stored file.
// @Summary Delete a gallery image
// @Tags Gallery
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/admin/gallery/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteImage")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Gallery image deleted successfully")
}
