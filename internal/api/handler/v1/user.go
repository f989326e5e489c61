package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wolontariat-api/internal/api/handler/v1/response"
	"wolontariat-api/internal/api/middleware"
	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetVolunteers(ctx context.Context, actor domain.User) ([]domain.User, error)
}

type CertificateService interface {
	SummaryCertificate(ctx context.Context, requester domain.User) (domain.CertificateDescriptor, error)
}

type UserHandler struct {
	svc     UserService
	certSvc CertificateService
}

func NewUserHandler(svc UserService, certSvc CertificateService) *UserHandler {
	return &UserHandler{
		svc:     svc,
		certSvc: certSvc,
	}
}

// getUserFromContext loads the authenticated user from the ID the JWT
// middleware stored in the gin context.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	v, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("user is not authenticated"))
	}

	userID, ok := v.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("user is not authenticated"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errors.New("user no longer exists"))
		}

		err = fmt.Errorf("v1.getUserFromContext -> svc.GetUser -> %w", err)

		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

// HandleGetMe godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.UserResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, response.NewUserResponse(user))
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {object}  response.UserResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	rawUserID := ctx.Param("userID")
	userID, err := strconv.ParseUint(rawUserID, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID %q", rawUserID)))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUserResponse(user))
}

// HandleGetVolunteers godoc
// @Summary      List volunteers
// @Description  Volunteer directory for organization users and coordinators.
// @Tags         users
// @Produce      json
// @Success      200  {array}   response.UserResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/volunteers [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetVolunteers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	volunteers, err := h.svc.GetVolunteers(ctx.Request.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetVolunteers -> h.svc.GetVolunteers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUsersResponse(volunteers))
}

// HandleSummaryCertificate godoc
// @Summary      Summary certificate for the authenticated volunteer
// @Description  Covers every completed participation of the requesting volunteer.
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.CertificateDescriptor
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me/certificate [get]
// @Security     BearerAuth
func (h *UserHandler) HandleSummaryCertificate(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cert, err := h.certSvc.SummaryCertificate(ctx.Request.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, service.ErrNotCompleted) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSummaryCertificate -> h.certSvc.SummaryCertificate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cert)
}
