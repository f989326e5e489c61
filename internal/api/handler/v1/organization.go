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
	"wolontariat-api/internal/repository"
	"wolontariat-api/internal/service"
)

type OrganizationService interface {
	CreateOrganization(ctx context.Context, org domain.Organization, actor domain.User) (domain.Organization, error)
	GetOrganizations(ctx context.Context) ([]domain.Organization, error)
	GetOrganization(ctx context.Context, id uint) (domain.Organization, error)
	DeleteOrganization(ctx context.Context, id uint, actor domain.User) error
	CreateProject(ctx context.Context, project domain.Project, actor domain.User) (domain.Project, error)
	GetProject(ctx context.Context, id uint) (domain.Project, error)
	GetProjects(ctx context.Context, organizationID *uint, search string) ([]domain.Project, error)
	DeleteProject(ctx context.Context, id uint, actor domain.User) error
}

type OrganizationHandler struct {
	svc      OrganizationService
	offerSvc OfferService
	uSvc     UserService
}

func NewOrganizationHandler(svc OrganizationService, offerSvc OfferService, uSvc UserService) *OrganizationHandler {
	return &OrganizationHandler{
		svc:      svc,
		offerSvc: offerSvc,
		uSvc:     uSvc,
	}
}

// HandleGetOrganizations godoc
// @Summary      List verified organizations
// @Tags         organizations
// @Produce      json
// @Success      200  {array}   domain.Organization
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /organizations [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleGetOrganizations(ctx *gin.Context) {
	orgs, err := h.svc.GetOrganizations(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOrganizations -> h.svc.GetOrganizations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orgs)
}

// HandleGetOrganization godoc
// @Summary      Get an organization by ID
// @Tags         organizations
// @Produce      json
// @Param        organizationID  path      int  true  "Organization ID"
// @Success      200  {object}  domain.Organization
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /organizations/{organizationID} [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleGetOrganization(ctx *gin.Context) {
	rawOrgID := ctx.Param("organizationID")
	orgID, err := strconv.ParseUint(rawOrgID, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid organization ID %q", rawOrgID)))
		return
	}

	org, err := h.svc.GetOrganization(ctx.Request.Context(), uint(orgID))
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organization", "ID", orgID))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrganization -> h.svc.GetOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, org)
}

// HandleCreateOrganization godoc
// @Summary      Register an organization
// @Description  Coordinators only. A non-empty tax id marks the organization verified.
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateOrganizationRequest  true  "Organization details"
// @Success      201    {object}  domain.Organization
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /organizations [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleCreateOrganization(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateOrganization(ctx.Request.Context(), domain.Organization{
		Name:  input.Name,
		Phone: input.Phone,
		TaxID: input.TaxID,
	}, user)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateOrganization -> h.svc.CreateOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteOrganization godoc
// @Summary      Delete an organization
// @Description  Coordinators only. Projects, offers and reviews under the organization go with it.
// @Tags         organizations
// @Param        organizationID  path  int  true  "Organization ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /organizations/{organizationID} [delete]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleDeleteOrganization(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rawOrgID := ctx.Param("organizationID")
	orgID, err := strconv.ParseUint(rawOrgID, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid organization ID %q", rawOrgID)))
		return
	}

	if err := h.svc.DeleteOrganization(ctx.Request.Context(), uint(orgID), user); err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("organization", "ID", orgID))
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteOrganization -> h.svc.DeleteOrganization -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetProjects godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        organization  query     int     false  "Organization ID"
// @Param        search        query     string  false  "Search in name and description"
// @Success      200  {array}   domain.Project
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleGetProjects(ctx *gin.Context) {
	var organizationID *uint
	if raw := ctx.Query("organization"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid organization ID %q", raw)))
			return
		}
		orgID := uint(id)
		organizationID = &orgID
	}

	projects, err := h.svc.GetProjects(ctx.Request.Context(), organizationID, ctx.Query("search"))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetProjects -> h.svc.GetProjects -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

// HandleGetProject godoc
// @Summary      Get a project by ID
// @Tags         projects
// @Produce      json
// @Param        projectID  path      int  true  "Project ID"
// @Success      200  {object}  domain.Project
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID} [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleGetProject(ctx *gin.Context) {
	projectID, respErr := parseProjectID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	project, err := h.svc.GetProject(ctx.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
			return
		}

		err = fmt.Errorf("v1.HandleGetProject -> h.svc.GetProject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// HandleCreateProject godoc
// @Summary      Create a project
// @Description  Organization users create under their own organization; coordinators name the owning organization.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateProjectRequest  true  "Project details"
// @Success      201    {object}  domain.Project
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /projects [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleCreateProject(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateProject(ctx.Request.Context(), domain.Project{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Description:    input.Description,
	}, user)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, service.ErrOrganizationNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateProject -> h.svc.CreateProject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteProject godoc
// @Summary      Delete a project
// @Description  Organization users delete their own organization's projects; coordinators may delete any. The project's offers go with it.
// @Tags         projects
// @Param        projectID  path  int  true  "Project ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID} [delete]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleDeleteProject(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	projectID, respErr := parseProjectID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteProject(ctx.Request.Context(), projectID, user); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteProject -> h.svc.DeleteProject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetProjectOffers godoc
// @Summary      List a project's offers
// @Tags         projects
// @Produce      json
// @Param        projectID  path      int  true  "Project ID"
// @Success      200  {array}   response.OfferResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /projects/{projectID}/offers [get]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleGetProjectOffers(ctx *gin.Context) {
	projectID, respErr := parseProjectID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.svc.GetProject(ctx.Request.Context(), projectID); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("project", "ID", projectID))
			return
		}

		err = fmt.Errorf("v1.HandleGetProjectOffers -> h.svc.GetProject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	offers, err := h.offerSvc.ListOffers(ctx.Request.Context(), repository.OfferFilter{ProjectID: &projectID})
	if err != nil {
		err = fmt.Errorf("v1.HandleGetProjectOffers -> h.offerSvc.ListOffers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOffersResponse(offers))
}

func parseProjectID(ctx *gin.Context) (uint, *response.Err) {
	rawProjectID := ctx.Param("projectID")
	projectID, err := strconv.ParseUint(rawProjectID, 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid project ID %q", rawProjectID))
	}

	return uint(projectID), nil
}
