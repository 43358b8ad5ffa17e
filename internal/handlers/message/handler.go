package message

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/infras/otel"
	"hotel/internal/domains/message/model"
	"hotel/internal/domains/message/model/dto"
	"hotel/internal/domains/message/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/response"
)

type Handler struct {
	service service.Message
	otel    otel.Otel
}

type CreatedResponse struct {
	ID string `json:"id"`
}

func New(service service.Message, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) PublicRouter(router chi.Router) {
	router.Post("/messages", handler.SendMessage)
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/messages", func(r chi.Router) {
		r.Get("/", handler.GetMessages)
		r.Get("/{id}", handler.GetMessageByID)
		r.Patch("/{id}", handler.UpdateMessage)
		r.Post("/{id}/reply", handler.ReplyMessage)
		r.Delete("/{id}", handler.DeleteMessage)
	})
}

// SendMessage accepts a contact form submission.
// @Summary Send a message
// @Tags Message
// @Accept json
// @Produce json
// @Param request body dto.CreateMessageRequest true "Message"
// @Success 201 {object} response.Data[CreatedResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/messages [post]
func (handler *Handler) SendMessage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendMessage")
	defer scope.End()

	req := dto.CreateMessageRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send message")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, CreatedResponse{ID: id})
}

// GetMessages lists the inbox.
// @Summary Get messages
// @Tags Message
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Search name, email, subject and body"
// @Param status query string false "Status"
// @Param priority query string false "Priority"
// @Param is_starred query boolean false "Starred"
// @Success 200 {object} response.Data[dto.GetMessagesResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/messages [get]
// @Security BearerAuth
func (handler *Handler) GetMessages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMessages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.FieldStatus, model.FieldPriority, constant.FieldCreatedAt)

	query := request.URL.Query()

	filter := gDto.NewFilterGroup()
	filter.Search(model.TableName, query.Get(constant.RequestParamQuery), model.FieldName, model.FieldEmail, model.FieldSubject, model.FieldMessage).
		Eq(model.TableName, model.FieldStatus, query.Get(model.FieldStatus)).
		Eq(model.TableName, model.FieldPriority, query.Get(model.FieldPriority)).
		Eq(model.TableName, model.FieldIsStarred, shared.ConvertStringToBool(query.Get(model.FieldIsStarred)))

	messages, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, messages)
}

// GetMessageByID opens a message, marking it read if it was unread.
// @Summary Get a message
// @Tags Message
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} response.Data[dto.MessageResponse]
// @Failure 404 {object} response.Error
// @Router /v1/admin/messages/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMessageByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMessageByID")
	defer scope.End()

	msg, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, msg)
}

// UpdateMessage changes status, priority or the star.
// @Summary Update a message
// @Tags Message
// @Accept json
// @Produce json
// @Param id path string true "Message ID"
// @Param request body dto.UpdateMessageRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/messages/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMessage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMessage")
	defer scope.End()

	req := dto.UpdateMessageRequest{}
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

	response.WithMessage(writer, http.StatusOK, "Message updated successfully")
}

// ReplyMessage stores a reply. No email is sent.
// @Summary Reply to a message
// @Tags Message
// @Accept json
// @Produce json
// @Param id path string true "Message ID"
// @Param request body dto.ReplyRequest true "Reply"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/messages/{id}/reply [post]
// @Security BearerAuth
func (handler *Handler) ReplyMessage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReplyMessage")
	defer scope.End()

	req := dto.ReplyRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.Reply(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Reply saved successfully")
}

// DeleteMessage deletes a message.
// @Summary Delete a message
// @Tags Message
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/admin/messages/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMessage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMessage")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Message deleted successfully")
}
