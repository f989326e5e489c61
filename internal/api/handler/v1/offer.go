package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wolontariat-api/internal/api/handler/v1/request"
	"wolontariat-api/internal/api/handler/v1/response"
	"wolontariat-api/internal/domain"
	"wolontariat-api/internal/repository"
	"wolontariat-api/internal/service"
)

type OfferService interface {
	CreateOffer(ctx context.Context, offer domain.Offer, actor domain.User) (domain.Offer, error)
	GetOffer(ctx context.Context, id uint) (domain.Offer, error)
	ListOffers(ctx context.Context, filter repository.OfferFilter) ([]domain.Offer, error)
	ListParticipations(ctx context.Context, offerID uint) ([]domain.Participation, error)
	MyOffers(ctx context.Context, actor domain.User) ([]domain.Offer, error)
	Apply(ctx context.Context, offerID uint, actor domain.User) (domain.Participation, error)
	Withdraw(ctx context.Context, offerID uint, actor domain.User) (domain.Participation, error)
	Confirm(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error)
	ApproveCompletion(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error)
	Assign(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error)
	Close(ctx context.Context, offerID uint, actor domain.User) (domain.Offer, error)
	DeleteOffer(ctx context.Context, offerID uint, actor domain.User) error
}

type OfferCertificateService interface {
	IssueCertificate(ctx context.Context, offerID, volunteerID uint, requester domain.User) (domain.CertificateDescriptor, error)
}

type OfferHandler struct {
	svc     OfferService
	certSvc OfferCertificateService
	uSvc    UserService
}

func NewOfferHandler(svc OfferService, certSvc OfferCertificateService, uSvc UserService) *OfferHandler {
	return &OfferHandler{
		svc:     svc,
		certSvc: certSvc,
		uSvc:    uSvc,
	}
}

func parseOfferID(ctx *gin.Context) (uint, *response.Err) {
	rawOfferID := ctx.Param("offerID")
	offerID, err := strconv.ParseUint(rawOfferID, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid offer ID %q", rawOfferID))
	}

	return uint(offerID), nil
}

// renderOfferErr maps workflow errors onto the HTTP taxonomy. State-machine
// rejections are client errors, not server faults.
func renderOfferErr(ctx *gin.Context, err error, op string, offerID uint) {
	switch {
	case errors.Is(err, service.ErrOfferNotFound):
		response.RenderErr(ctx, response.ErrNotFound("offer", "ID", offerID))
	case errors.Is(err, service.ErrVolunteerNotFound):
		response.RenderErr(ctx, response.ErrNotFound("volunteer", "offer ID", offerID))
	case errors.Is(err, service.ErrProjectNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrParticipationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("participation", "offer ID", offerID))
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrOfferClosed),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrCapacityExceeded):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}

// HandleGetOffers godoc
// @Summary      List offers
// @Description  Filterable by project, organization, location, topic, duration, search, completed and availability.
// @Tags         offers
// @Produce      json
// @Param        project       query     int     false  "Project ID"
// @Param        organization  query     int     false  "Organization ID"
// @Param        location      query     string  false  "Location substring"
// @Param        topic         query     string  false  "Topic substring"
// @Param        duration      query     string  false  "Duration substring"
// @Param        search        query     string  false  "Search in title and requirements"
// @Param        completed     query     bool    false  "Completed flag"
// @Param        available     query     bool    false  "Only offers with no active participation"
// @Success      200  {array}   response.OfferResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers [get]
// @Security     BearerAuth
func (h *OfferHandler) HandleGetOffers(ctx *gin.Context) {
	filter, respErr := parseOfferFilter(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offers, err := h.svc.ListOffers(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOffers -> h.svc.ListOffers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOffersResponse(offers))
}

func parseOfferFilter(ctx *gin.Context) (repository.OfferFilter, *response.Err) {
	filter := repository.OfferFilter{
		Location: ctx.Query("location"),
		Topic:    ctx.Query("topic"),
		Duration: ctx.Query("duration"),
		Search:   ctx.Query("search"),
	}

	if raw := ctx.Query("project"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, response.ErrBadRequest(fmt.Errorf("invalid project ID %q", raw))
		}
		projectID := uint(id)
		filter.ProjectID = &projectID
	}

	if raw := ctx.Query("organization"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, response.ErrBadRequest(fmt.Errorf("invalid organization ID %q", raw))
		}
		organizationID := uint(id)
		filter.OrganizationID = &organizationID
	}

	if raw := ctx.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, response.ErrBadRequest(fmt.Errorf("invalid completed flag %q", raw))
		}
		filter.Completed = &completed
	}

	if raw := ctx.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, response.ErrBadRequest(fmt.Errorf("invalid available flag %q", raw))
		}
		filter.AvailableOnly = available
	}

	return filter, nil
}

// HandleCreateOffer godoc
// @Summary      Create a new offer
// @Description  Posts an offer under a project. Organization users may only post under their own organization.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateOfferRequest  true  "Offer details"
// @Success      201    {object}  response.OfferResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /offers [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleCreateOffer(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateOfferRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	offer := domain.Offer{
		ProjectID:    input.ProjectID,
		Title:        input.Title,
		Location:     input.Location,
		Topic:        input.Topic,
		Duration:     input.Duration,
		Requirements: input.Requirements,
		Capacity:     input.Capacity,
	}

	if input.Date != "" {
		parsedDate, err := time.Parse("02/01/2006", input.Date)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %v", err)))
			return
		}
		offer.Date = &parsedDate
	}

	created, err := h.svc.CreateOffer(ctx.Request.Context(), offer, user)
	if err != nil {
		renderOfferErr(ctx, err, "v1.HandleCreateOffer -> h.svc.CreateOffer", offer.ProjectID)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewOfferResponse(created))
}

// HandleGetOffer godoc
// @Summary      Get an offer by ID
// @Tags         offers
// @Produce      json
// @Param        offerID  path      int  true  "Offer ID"
// @Success      200  {object}  response.OfferResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID} [get]
// @Security     BearerAuth
func (h *OfferHandler) HandleGetOffer(ctx *gin.Context) {
	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offer, err := h.svc.GetOffer(ctx.Request.Context(), offerID)
	if err != nil {
		renderOfferErr(ctx, err, "v1.HandleGetOffer -> h.svc.GetOffer", offerID)
		return
	}

	ctx.JSON(http.StatusOK, response.NewOfferResponse(offer))
}

// HandleMyOffers godoc
// @Summary      List offers relevant to the authenticated user
// @Description  Applied-to offers for volunteers, the organization's offers for organization-side users.
// @Tags         offers
// @Produce      json
// @Success      200  {array}   response.OfferResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/my-offers [get]
// @Security     BearerAuth
func (h *OfferHandler) HandleMyOffers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offers, err := h.svc.MyOffers(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("v1.HandleMyOffers -> h.svc.MyOffers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOffersResponse(offers))
}

// HandleGetParticipations godoc
// @Summary      List an offer's participations
// @Tags         offers
// @Produce      json
// @Param        offerID  path      int  true  "Offer ID"
// @Success      200  {array}   response.ParticipationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/participations [get]
// @Security     BearerAuth
func (h *OfferHandler) HandleGetParticipations(ctx *gin.Context) {
	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participations, err := h.svc.ListParticipations(ctx.Request.Context(), offerID)
	if err != nil {
		renderOfferErr(ctx, err, "v1.HandleGetParticipations -> h.svc.ListParticipations", offerID)
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipationsResponse(participations))
}

// HandleApply godoc
// @Summary      Apply to an offer
// @Description  Records the authenticated volunteer's application.
// @Tags         offers
// @Produce      json
// @Param        offerID  path      int  true  "Offer ID"
// @Success      200  {object}  response.ParticipationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/apply [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleApply(ctx *gin.Context) {
	h.handleSelfTransition(ctx, "v1.HandleApply", h.svc.Apply)
}

// HandleWithdraw godoc
// @Summary      Withdraw an application
// @Description  Retracts the authenticated volunteer's own application.
// @Tags         offers
// @Produce      json
// @Param        offerID  path      int  true  "Offer ID"
// @Success      200  {object}  response.ParticipationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/withdraw [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleWithdraw(ctx *gin.Context) {
	h.handleSelfTransition(ctx, "v1.HandleWithdraw", h.svc.Withdraw)
}

// HandleConfirm godoc
// @Summary      Confirm a volunteer's application
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        offerID  path      int                             true  "Offer ID"
// @Param        input    body      request.VolunteerActionRequest  true  "Target volunteer"
// @Success      200  {object}  response.ParticipationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/confirm [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleConfirm(ctx *gin.Context) {
	h.handleTargetedTransition(ctx, "v1.HandleConfirm", h.svc.Confirm)
}

// HandleApproveCompletion godoc
// @Summary      Approve a volunteer's completion
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        offerID  path      int                             true  "Offer ID"
// @Param        input    body      request.VolunteerActionRequest  true  "Target volunteer"
// @Success      200  {object}  response.ParticipationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/approve-completion [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleApproveCompletion(ctx *gin.Context) {
	h.handleTargetedTransition(ctx, "v1.HandleApproveCompletion", h.svc.ApproveCompletion)
}

// HandleAssign godoc
// @Summary      Assign a volunteer directly
// @Description  Places a known volunteer straight into the confirmed state.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        offerID  path      int                             true  "Offer ID"
// @Param        input    body      request.VolunteerActionRequest  true  "Target volunteer"
// @Success      200  {object}  response.ParticipationResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/assign [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleAssign(ctx *gin.Context) {
	h.handleTargetedTransition(ctx, "v1.HandleAssign", h.svc.Assign)
}

// HandleClose godoc
// @Summary      Close an offer
// @Description  Marks the offer completed regardless of individual participation state.
// @Tags         offers
// @Produce      json
// @Param        offerID  path      int  true  "Offer ID"
// @Success      200  {object}  response.OfferResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/close [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleClose(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offer, err := h.svc.Close(ctx.Request.Context(), offerID, user)
	if err != nil {
		renderOfferErr(ctx, err, "v1.HandleClose -> h.svc.Close", offerID)
		return
	}

	ctx.JSON(http.StatusOK, response.NewOfferResponse(offer))
}

// HandleDeleteOffer godoc
// @Summary      Delete an offer
// @Description  Removes the offer; its participations and reviews go with it.
// @Tags         offers
// @Param        offerID  path  int  true  "Offer ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID} [delete]
// @Security     BearerAuth
func (h *OfferHandler) HandleDeleteOffer(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteOffer(ctx.Request.Context(), offerID, user); err != nil {
		renderOfferErr(ctx, err, "v1.HandleDeleteOffer -> h.svc.DeleteOffer", offerID)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetCertificate godoc
// @Summary      Issue a certificate for a completed participation
// @Description  Self-service only; requires the authenticated volunteer's participation to be completed.
// @Tags         offers
// @Produce      json
// @Param        offerID  path      int  true  "Offer ID"
// @Success      200  {object}  domain.CertificateDescriptor
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /offers/{offerID}/certificate [get]
// @Security     BearerAuth
func (h *OfferHandler) HandleGetCertificate(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cert, err := h.certSvc.IssueCertificate(ctx.Request.Context(), offerID, user.ID, user)
	if err != nil {
		if errors.Is(err, service.ErrNotCompleted) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		renderOfferErr(ctx, err, "v1.HandleGetCertificate -> h.certSvc.IssueCertificate", offerID)
		return
	}

	ctx.JSON(http.StatusOK, cert)
}

func (h *OfferHandler) handleSelfTransition(
	ctx *gin.Context,
	op string,
	action func(ctx context.Context, offerID uint, actor domain.User) (domain.Participation, error),
) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participation, err := action(ctx.Request.Context(), offerID, user)
	if err != nil {
		renderOfferErr(ctx, err, op, offerID)
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipationResponse(participation))
}

func (h *OfferHandler) handleTargetedTransition(
	ctx *gin.Context,
	op string,
	action func(ctx context.Context, offerID, volunteerID uint, actor domain.User) (domain.Participation, error),
) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	offerID, respErr := parseOfferID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.VolunteerActionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participation, err := action(ctx.Request.Context(), offerID, input.VolunteerID, user)
	if err != nil {
		renderOfferErr(ctx, err, op, offerID)
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipationResponse(participation))
}
