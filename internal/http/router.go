package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agilesync/agilesync/internal/domain"
	"github.com/agilesync/agilesync/internal/repository"
	"github.com/agilesync/agilesync/internal/service/auth"
	"github.com/agilesync/agilesync/internal/service/identity"
	"github.com/agilesync/agilesync/internal/service/project"
	"github.com/agilesync/agilesync/internal/service/tenant"
	"github.com/agilesync/agilesync/internal/session"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	identity identity.Service
	tenant   *tenant.Service
	project  project.Service
	limiter  RateLimiter
	dbHealth func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault   = time.Minute
	rateLimitRegister   = 5
	rateLimitLogin      = 12
	rateLimitAdminLogin = 6
	healthCheckTimeout  = 2 * time.Second
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, identitySvc identity.Service, tenantSvc *tenant.Service, projectSvc project.Service, limiter RateLimiter, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     authSvc,
		identity: identitySvc,
		tenant:   tenantSvc,
		project:  projectSvc,
		limiter:  limiter,
		dbHealth: dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("GET /healthz", r.instrument("/healthz", r.handleHealthz))
	r.mux.Handle("GET /metrics", promhttp.Handler())

	// identity
	r.mux.HandleFunc("POST /api/identity/register", r.instrument("/api/identity/register",
		r.withRateLimit("register", rateLimitRegister, rateWindowDefault, r.handleRegister)))
	r.mux.HandleFunc("POST /api/identity/login", r.instrument("/api/identity/login",
		r.withRateLimit("login", rateLimitLogin, rateWindowDefault, r.handleLogin)))
	r.mux.HandleFunc("POST /api/identity/logout", r.instrument("/api/identity/logout", r.handleLogout))
	r.mux.HandleFunc("GET /api/identity/me", r.instrument("/api/identity/me", r.requireUser(r.handleMe)))
	r.mux.HandleFunc("GET /api/identity/users", r.instrument("/api/identity/users", r.requireUser(r.handleListUsers)))
	r.mux.HandleFunc("GET /api/identity/users/{id}", r.instrument("/api/identity/users/{id}", r.requireUser(r.handleGetUser)))
	r.mux.HandleFunc("GET /api/identity/users/{id}/theme", r.instrument("/api/identity/users/{id}/theme", r.requireUser(r.handleGetTheme)))
	r.mux.HandleFunc("PUT /api/identity/users/{id}/theme", r.instrument("/api/identity/users/{id}/theme", r.requireUser(r.handleUpdateTheme)))

	// superadmin
	r.mux.HandleFunc("POST /api/identity/admin/login", r.instrument("/api/identity/admin/login",
		r.withRateLimit("admin-login", rateLimitAdminLogin, rateWindowDefault, r.handleAdminLogin)))
	r.mux.HandleFunc("POST /api/identity/admin/logout", r.instrument("/api/identity/admin/logout", r.handleAdminLogout))
	r.mux.HandleFunc("POST /api/identity/admin/app-token", r.instrument("/api/identity/admin/app-token", r.requireAdmin(r.handleAppToken)))
	r.mux.HandleFunc("GET /api/identity/admin/organizations", r.instrument("/api/identity/admin/organizations", r.requireAdmin(r.handleListOrgs)))
	r.mux.HandleFunc("POST /api/identity/admin/organizations", r.instrument("/api/identity/admin/organizations", r.requireAdmin(r.handleCreateOrg)))
	r.mux.HandleFunc("GET /api/identity/admin/organizations/{id}", r.instrument("/api/identity/admin/organizations/{id}", r.requireAdmin(r.handleGetOrg)))
	r.mux.HandleFunc("PUT /api/identity/admin/organizations/{id}", r.instrument("/api/identity/admin/organizations/{id}", r.requireAdmin(r.handleUpdateOrg)))
	r.mux.HandleFunc("DELETE /api/identity/admin/organizations/{id}", r.instrument("/api/identity/admin/organizations/{id}", r.requireAdmin(r.handleDeactivateOrg)))
	r.mux.HandleFunc("GET /api/identity/admin/organizations/{orgId}/admins", r.instrument("/api/identity/admin/organizations/{orgId}/admins", r.requireAdmin(r.handleListAdmins)))
	r.mux.HandleFunc("POST /api/identity/admin/organizations/{orgId}/admins", r.instrument("/api/identity/admin/organizations/{orgId}/admins", r.requireAdmin(r.handleAddAdmin)))
	r.mux.HandleFunc("DELETE /api/identity/admin/organizations/{orgId}/admins/{userId}", r.instrument("/api/identity/admin/organizations/{orgId}/admins/{userId}", r.requireAdmin(r.handleRemoveAdmin)))

	// projects
	r.mux.HandleFunc("GET /api/projects", r.instrument("/api/projects", r.requireUser(r.handleListProjects)))
	r.mux.HandleFunc("POST /api/projects", r.instrument("/api/projects", r.requireUser(r.handleCreateProject)))
	r.mux.HandleFunc("GET /api/projects/{id}", r.instrument("/api/projects/{id}", r.requireUser(r.handleGetProject)))
	r.mux.HandleFunc("PUT /api/projects/{id}", r.instrument("/api/projects/{id}", r.requireUser(r.handleUpdateProject)))
	r.mux.HandleFunc("DELETE /api/projects/{id}", r.instrument("/api/projects/{id}", r.requireUser(r.handleDeleteProject)))
	r.mux.HandleFunc("POST /api/projects/{id}/members/{userId}", r.instrument("/api/projects/{id}/members/{userId}", r.requireUser(r.handleAddProjectMember)))
	r.mux.HandleFunc("DELETE /api/projects/{id}/members/{userId}", r.instrument("/api/projects/{id}/members/{userId}", r.requireUser(r.handleRemoveProjectMember)))
	r.mux.HandleFunc("GET /api/projects/boards/{projectId}", r.instrument("/api/projects/boards/{projectId}", r.requireUser(r.handleListBoards)))
	r.mux.HandleFunc("POST /api/projects/boards", r.instrument("/api/projects/boards", r.requireUser(r.handleCreateBoard)))
	r.mux.HandleFunc("DELETE /api/projects/boards/{id}", r.instrument("/api/projects/boards/{id}", r.requireUser(r.handleDeleteBoard)))
	r.mux.HandleFunc("GET /api/projects/sprints/{projectId}", r.instrument("/api/projects/sprints/{projectId}", r.requireUser(r.handleListSprints)))
	r.mux.HandleFunc("POST /api/projects/sprints", r.instrument("/api/projects/sprints", r.requireUser(r.handleCreateSprint)))
	r.mux.HandleFunc("DELETE /api/projects/sprints/{id}", r.instrument("/api/projects/sprints/{id}", r.requireUser(r.handleDeleteSprint)))
	r.mux.HandleFunc("GET /api/projects/workitems/{boardId}", r.instrument("/api/projects/workitems/{boardId}", r.requireUser(r.handleListWorkItems)))
	r.mux.HandleFunc("GET /api/projects/workitems/item/{id}", r.instrument("/api/projects/workitems/item/{id}", r.requireUser(r.handleGetWorkItem)))
	r.mux.HandleFunc("POST /api/projects/workitems", r.instrument("/api/projects/workitems", r.requireUser(r.handleCreateWorkItem)))
	r.mux.HandleFunc("PUT /api/projects/workitems/{id}", r.instrument("/api/projects/workitems/{id}", r.requireUser(r.handleUpdateWorkItem)))
	r.mux.HandleFunc("DELETE /api/projects/workitems/{id}", r.instrument("/api/projects/workitems/{id}", r.requireUser(r.handleDeleteWorkItem)))
}

// instrument records request metrics for the route label.
func (r *Router) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, req)
		r.recordRequestMetrics(req.Method, route, rec.status, time.Since(started))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			r.logger.Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ok", nil)
}

// ── identity ──

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	user, err := r.identity.Register(req.Context(), payload.Email, payload.DisplayName, payload.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusCreated, "registration successful", userResponse(user))
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	user, token, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, loginResponse(token, user))
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if token, err := bearerToken(req.Header.Get("Authorization")); err == nil {
		r.auth.Logout(token)
	}
	writeMessage(w, http.StatusOK, "logged out", nil)
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	principal, ok := principalFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := r.identity.GetUser(req.Context(), principal)
	if err != nil {
		// app-view tokens resolve to a principal with no backing record
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, userResponse(user))
}

func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.identity.ListUsers(req.Context())
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	out := make([]map[string]any, 0, len(users))
	for _, user := range users {
		out = append(out, userResponse(user))
	}
	writeData(w, http.StatusOK, out)
}

func (r *Router) handleGetUser(w http.ResponseWriter, req *http.Request) {
	user, err := r.identity.GetUser(req.Context(), req.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, userResponse(user))
}

func (r *Router) handleGetTheme(w http.ResponseWriter, req *http.Request) {
	prefs, err := r.identity.ThemePreferences(req.Context(), req.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, prefs)
}

func (r *Router) handleUpdateTheme(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Platform string `json:"platform"`
		Theme    string `json:"theme"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	prefs, err := r.identity.UpdateTheme(req.Context(), req.PathValue("id"), payload.Platform, payload.Theme)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidPlatform):
			writeError(w, http.StatusBadRequest, "invalid platform, use 'web' or 'pwa'")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			r.internalError(w, req, err)
		}
		return
	}
	writeMessage(w, http.StatusOK, "theme updated", prefs)
}

// ── superadmin ──

func (r *Router) handleAdminLogin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	token, err := r.auth.AdminLogin(payload.Username, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMisconfigured):
			writeError(w, http.StatusInternalServerError, "server misconfiguration")
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			r.internalError(w, req, err)
		}
		return
	}
	writeData(w, http.StatusOK, map[string]string{"token": token})
}

func (r *Router) handleAdminLogout(w http.ResponseWriter, req *http.Request) {
	if token, err := bearerToken(req.Header.Get("Authorization")); err == nil {
		r.auth.AdminLogout(token)
	}
	writeMessage(w, http.StatusOK, "logged out", nil)
}

func (r *Router) handleAppToken(w http.ResponseWriter, req *http.Request) {
	token, err := r.auth.IssueAppToken()
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"token":       token,
		"userId":      session.SuperAdmin,
		"email":       "admin@agilesync.local",
		"displayName": "Super Admin",
		"role":        session.SuperAdmin,
	})
}

func (r *Router) handleListOrgs(w http.ResponseWriter, req *http.Request) {
	orgs, err := r.tenant.ListOrganizations(req.Context())
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, orgs)
}

func (r *Router) handleCreateOrg(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	org, err := r.tenant.CreateOrganization(req.Context(), payload.Name, payload.Slug, payload.Description)
	if err != nil {
		if errors.Is(err, tenant.ErrSlugTaken) {
			writeError(w, http.StatusConflict, "an organization with this slug already exists")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusCreated, "organization created", org)
}

func (r *Router) handleGetOrg(w http.ResponseWriter, req *http.Request) {
	org, err := r.tenant.GetOrganization(req.Context(), req.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, org)
}

func (r *Router) handleUpdateOrg(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsActive    bool   `json:"isActive"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	org, err := r.tenant.UpdateOrganization(req.Context(), req.PathValue("id"), payload.Name, payload.Description, payload.IsActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "organization updated", org)
}

func (r *Router) handleDeactivateOrg(w http.ResponseWriter, req *http.Request) {
	if _, err := r.tenant.DeactivateOrganization(req.Context(), req.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "organization deactivated", nil)
}

func (r *Router) handleListAdmins(w http.ResponseWriter, req *http.Request) {
	orgID := req.PathValue("orgId")
	admins, err := r.tenant.ListAdmins(req.Context(), orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "organization not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	out := make([]map[string]any, 0, len(admins))
	for _, admin := range admins {
		out = append(out, tenantAdminResponse(admin, orgID))
	}
	writeData(w, http.StatusOK, out)
}

func (r *Router) handleAddAdmin(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	orgID := req.PathValue("orgId")
	user, err := r.tenant.AddAdmin(req.Context(), orgID, payload.Email, payload.DisplayName, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "organization not found")
		case errors.Is(err, tenant.ErrAlreadyMember):
			writeError(w, http.StatusConflict, "user is already a member of this organization")
		default:
			r.internalError(w, req, err)
		}
		return
	}
	writeMessage(w, http.StatusCreated, "admin added", tenantAdminResponse(user, orgID))
}

func (r *Router) handleRemoveAdmin(w http.ResponseWriter, req *http.Request) {
	err := r.tenant.RemoveAdmin(req.Context(), req.PathValue("orgId"), req.PathValue("userId"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, tenant.ErrNotMember):
			writeError(w, http.StatusNotFound, "user is not a member of this organization")
		default:
			r.internalError(w, req, err)
		}
		return
	}
	writeMessage(w, http.StatusOK, "admin removed", nil)
}

// ── projects ──

func (r *Router) handleListProjects(w http.ResponseWriter, req *http.Request) {
	projects, err := r.project.ListProjects(req.Context())
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, projects)
}

func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Key         string `json:"key"`
		OwnerID     string `json:"ownerId"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	proj, err := r.project.CreateProject(req.Context(), payload.Name, payload.Description, payload.Key, payload.OwnerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeMessage(w, http.StatusCreated, "project created", proj)
}

func (r *Router) handleGetProject(w http.ResponseWriter, req *http.Request) {
	proj, err := r.project.GetProject(req.Context(), req.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, proj)
}

func (r *Router) handleUpdateProject(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	proj, err := r.project.UpdateProject(req.Context(), req.PathValue("id"), payload.Name, payload.Description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "project updated", proj)
}

func (r *Router) handleDeleteProject(w http.ResponseWriter, req *http.Request) {
	if err := r.project.DeleteProject(req.Context(), req.PathValue("id")); err != nil {
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "project deleted", nil)
}

func (r *Router) handleAddProjectMember(w http.ResponseWriter, req *http.Request) {
	proj, err := r.project.AddMember(req.Context(), req.PathValue("id"), req.PathValue("userId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "member added", proj)
}

func (r *Router) handleRemoveProjectMember(w http.ResponseWriter, req *http.Request) {
	proj, err := r.project.RemoveMember(req.Context(), req.PathValue("id"), req.PathValue("userId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "member removed", proj)
}

func (r *Router) handleListBoards(w http.ResponseWriter, req *http.Request) {
	boards, err := r.project.ListBoards(req.Context(), req.PathValue("projectId"))
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, boards)
}

func (r *Router) handleCreateBoard(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		ProjectID string `json:"projectId"`
		Name      string `json:"name"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	board, err := r.project.CreateBoard(req.Context(), payload.ProjectID, payload.Name)
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusCreated, "board created", board)
}

func (r *Router) handleDeleteBoard(w http.ResponseWriter, req *http.Request) {
	if err := r.project.DeleteBoard(req.Context(), req.PathValue("id")); err != nil {
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "board deleted", nil)
}

func (r *Router) handleListSprints(w http.ResponseWriter, req *http.Request) {
	sprints, err := r.project.ListSprints(req.Context(), req.PathValue("projectId"))
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, sprints)
}

func (r *Router) handleCreateSprint(w http.ResponseWriter, req *http.Request) {
	var payload struct {
		ProjectID string     `json:"projectId"`
		Name      string     `json:"name"`
		Goal      string     `json:"goal"`
		StartDate *time.Time `json:"startDate"`
		EndDate   *time.Time `json:"endDate"`
	}
	if !decodeBody(w, req, &payload) {
		return
	}
	sprint, err := r.project.CreateSprint(req.Context(), payload.ProjectID, payload.Name, payload.Goal, payload.StartDate, payload.EndDate)
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusCreated, "sprint created", sprint)
}

func (r *Router) handleDeleteSprint(w http.ResponseWriter, req *http.Request) {
	if err := r.project.DeleteSprint(req.Context(), req.PathValue("id")); err != nil {
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "sprint deleted", nil)
}

func (r *Router) handleListWorkItems(w http.ResponseWriter, req *http.Request) {
	items, err := r.project.ListWorkItems(req.Context(), req.PathValue("boardId"))
	if err != nil {
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (r *Router) handleGetWorkItem(w http.ResponseWriter, req *http.Request) {
	item, err := r.project.GetWorkItem(req.Context(), req.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "work item not found")
			return
		}
		r.internalError(w, req, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (r *Router) handleCreateWorkItem(w http.ResponseWriter, req *http.Request) {
	var payload project.WorkItemInput
	if !decodeBody(w, req, &payload) {
		return
	}
	item, err := r.project.CreateWorkItem(req.Context(), payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeMessage(w, http.StatusCreated, "work item created", item)
}

func (r *Router) handleUpdateWorkItem(w http.ResponseWriter, req *http.Request) {
	var payload project.WorkItemInput
	if !decodeBody(w, req, &payload) {
		return
	}
	item, err := r.project.UpdateWorkItem(req.Context(), req.PathValue("id"), payload)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "work item not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "work item updated", item)
}

func (r *Router) handleDeleteWorkItem(w http.ResponseWriter, req *http.Request) {
	if err := r.project.DeleteWorkItem(req.Context(), req.PathValue("id")); err != nil {
		r.internalError(w, req, err)
		return
	}
	writeMessage(w, http.StatusOK, "work item deleted", nil)
}

// ── helpers ──

func decodeBody(w http.ResponseWriter, req *http.Request, payload any) bool {
	if err := json.NewDecoder(req.Body).Decode(payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (r *Router) internalError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if errors.Is(err, repository.ErrUnavailable) {
		msg = "store unavailable"
	}
	r.logger.Error("request failed", "path", req.URL.Path, "error", err)
	writeError(w, status, msg)
}

func userResponse(u *domain.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        u.Role,
		"isActive":    u.IsActive,
	}
}

func loginResponse(token string, u *domain.User) map[string]any {
	return map[string]any{
		"token":       token,
		"userId":      u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        u.Role,
	}
}

func tenantAdminResponse(u *domain.User, orgID string) map[string]any {
	out := map[string]any{
		"userId":      u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
	}
	if m, ok := u.MembershipFor(orgID); ok {
		out["role"] = m.Role
		out["joinedAt"] = m.JoinedAt
	}
	return out
}
