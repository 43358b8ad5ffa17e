package promotion

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/promotion/model"
	"hotel/internal/domains/promotion/model/dto"
	"hotel/internal/domains/promotion/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

const formBanner = "banner"

type Handler struct {
	service service.Promotion
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Promotion, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) PublicRouter(router chi.Router) {
	router.Get("/offers", handler.GetOffers)
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Post("/promotions", handler.CreatePromotion)
	router.Get("/promotions", handler.GetPromotions)
	router.Get("/promotions/{id}", handler.GetPromotionByID)
	router.Patch("/promotions/{id}", handler.UpdatePromotion)
	router.Post("/promotions/{id}/banner", handler.UploadBanner)
	router.Delete("/promotions/{id}", handler.DeletePromotion)
}

// GetOffers lists promotions running today.
// @Summary Current offers
// @Tags Promotion
// @Produce json
// @Success 200 {object} response.Data[[]dto.PromotionResponse]
// @Failure 500 {object} response.Error
// @Router /v1/offers [get]
func (handler *Handler) GetOffers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOffers")
	defer scope.End()

	offers, err := handler.service.Offers(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offers)
}

// CreatePromotion creates a promotion.
// @Summary Create a promotion
// @Tags Promotion
// @Accept json
// @Produce json
// @Param request body dto.CreatePromotionRequest true "Promotion"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/promotions [post]
// @Security BearerAuth
func (handler *Handler) CreatePromotion(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePromotion")
	defer scope.End()

	req := dto.CreatePromotionRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create promotion")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Promotion created successfully")
}

// GetPromotions lists promotions.
// @Summary Get all promotions
// @Tags Promotion
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Search title, code and description"
// @Param discount_type query string false "Discount type"
// @Param is_active query boolean false "Active flag"
// @Success 200 {object} response.Data[dto.GetPromotionsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/promotions [get]
// @Security BearerAuth
func (handler *Handler) GetPromotions(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromotions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldTitle, model.FieldStartDate, model.FieldEndDate, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Search(model.TableName, query.Get(constant.RequestParamQuery), model.FieldTitle, model.FieldPromoCode, model.FieldDescription).
		Eq(model.TableName, model.FieldDiscountType, query.Get(model.FieldDiscountType)).
		Eq(model.TableName, model.FieldIsActive, shared.ConvertStringToBool(query.Get(model.FieldIsActive)))

	promotions, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, promotions)
}

// GetPromotionByID retrieves a promotion.
// @Summary Get a promotion by ID
// @Tags Promotion
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Data[dto.PromotionResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/promotions/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPromotionByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPromotionByID")
	defer scope.End()

	promotion, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, promotion)
}

// UpdatePromotion updates a promotion.
// @Summary Update a promotion
// @Tags Promotion
// @Accept json
// @Produce json
// @Param id path string true "Promotion ID"
// @Param request body dto.UpdatePromotionRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/promotions/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePromotion(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePromotion")
	defer scope.End()

	req := dto.UpdatePromotionRequest{}
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

	response.WithMessage(writer, http.StatusOK, "Promotion updated successfully")
}

// UploadBanner replaces the banner image of a promotion.
// @Summary Upload a promotion banner
// @Tags Promotion
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Promotion ID"
// @Param banner formData file true "Banner image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/promotions/{id}/banner [post]
// @Security BearerAuth
func (handler *Handler) UploadBanner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadBanner")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	files := request.MultipartForm.File[formBanner]
	if len(files) != 1 {
		response.WithError(writer, failure.BadRequestFromString("exactly one banner file is required"))

		return
	}

	if err := validator.ValidateFiles(files, 1, handler.cfg.External.S3.MaxFileSizeMB, validator.ImageTypes); err != nil {
		response.WithError(writer, err)

		return
	}

	if err := handler.service.UploadBanner(ctx, files[0], chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Promotion banner uploaded successfully")
}

// DeletePromotion deletes a promotion.
// @Summary Delete a promotion
// @Tags Promotion
// @Produce json
// @Param id path string true "Promotion ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/promotions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePromotion(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePromotion")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Promotion deleted successfully")
}
