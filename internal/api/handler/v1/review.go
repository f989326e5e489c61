package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wolontariat-api/internal/api/handler/v1/request"
	"wolontariat-api/internal/api/handler/v1/response"
	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/service"
)

type ReviewService interface {
	CreateReview(ctx context.Context, offerID, volunteerID uint, actor domain.User, rating int, comment string) (domain.Review, error)
	ListReviews(ctx context.Context, volunteerID *uint) ([]domain.Review, error)
	UpdateReview(ctx context.Context, reviewID uint, actor domain.User, rating int, comment string) (domain.Review, error)
	DeleteReview(ctx context.Context, reviewID uint, actor domain.User) error
}

type ReviewHandler struct {
	svc  ReviewService
	uSvc UserService
}

func NewReviewHandler(svc ReviewService, uSvc UserService) *ReviewHandler {
	return &ReviewHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateReview godoc
// @Summary      Review a volunteer
// @Description  The offer's owning organization reviews a volunteer whose participation is completed, once per offer.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateReviewRequest  true  "Review details"
// @Success      201    {object}  domain.Review
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /reviews [post]
// @Security     BearerAuth
func (h *ReviewHandler) HandleCreateReview(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	review, err := h.svc.CreateReview(ctx.Request.Context(), input.OfferID, input.VolunteerID, user, input.Rating, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOfferNotFound):
			response.RenderErr(ctx, response.ErrNotFound("offer", "ID", input.OfferID))
		case errors.Is(err, service.ErrVolunteerNotFound):
			response.RenderErr(ctx, response.ErrNotFound("volunteer", "ID", input.VolunteerID))
		case errors.Is(err, service.ErrForbidden):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrDuplicateReview):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrNotCompleted), errors.Is(err, service.ErrInvalidRating):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateReview -> h.svc.CreateReview -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

// HandleGetReviews godoc
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        volunteer  query     int  false  "Volunteer ID"
// @Success      200  {array}   domain.Review
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews [get]
// @Security     BearerAuth
func (h *ReviewHandler) HandleGetReviews(ctx *gin.Context) {
	var volunteerID *uint
	if raw := ctx.Query("volunteer"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid volunteer ID %q", raw)))
			return
		}
		vID := uint(id)
		volunteerID = &vID
	}

	reviews, err := h.svc.ListReviews(ctx.Request.Context(), volunteerID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetReviews -> h.svc.ListReviews -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// HandleUpdateReview godoc
// @Summary      Update a review
// @Description  Only the authoring organization may change its review.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        reviewID  path      int                          true  "Review ID"
// @Param        input     body      request.UpdateReviewRequest  true  "New rating and comment"
// @Success      200  {object}  domain.Review
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews/{reviewID} [put]
// @Security     BearerAuth
func (h *ReviewHandler) HandleUpdateReview(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reviewID, respErr := parseReviewID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	review, err := h.svc.UpdateReview(ctx.Request.Context(), reviewID, user, input.Rating, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			response.RenderErr(ctx, response.ErrNotFound("review", "ID", reviewID))
		case errors.Is(err, service.ErrForbidden):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrInvalidRating):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateReview -> h.svc.UpdateReview -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, review)
}

// HandleDeleteReview godoc
// @Summary      Delete a review
// @Description  Only the authoring organization may delete its review.
// @Tags         reviews
// @Produce      json
// @Param        reviewID  path      int  true  "Review ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews/{reviewID} [delete]
// @Security     BearerAuth
func (h *ReviewHandler) HandleDeleteReview(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reviewID, respErr := parseReviewID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteReview(ctx.Request.Context(), reviewID, user); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			response.RenderErr(ctx, response.ErrNotFound("review", "ID", reviewID))
		case errors.Is(err, service.ErrForbidden):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteReview -> h.svc.DeleteReview -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseReviewID(ctx *gin.Context) (uint, *response.Err) {
	rawReviewID := ctx.Param("reviewID")
	reviewID, err := strconv.ParseUint(rawReviewID, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid review ID %q", rawReviewID))
	}

	return uint(reviewID), nil
}
