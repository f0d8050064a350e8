package handlers

// newsposts.go implements the /api/newsposts endpoints

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/information-sharing-networks/newsposts/internal/cache"
	"github.com/information-sharing-networks/newsposts/internal/database"
	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/newsposts"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// NewsPostHandler handles the news posts CRUD requests
type NewsPostHandler struct {
	queries         database.Querier
	cache           cache.PostCache
	defaultPageSize int32
	maxPageSize     int32
	newID           func() uuid.UUID
}

// NewNewsPostHandler creates the handler. A nil postCache disables caching.
func NewNewsPostHandler(queries database.Querier, postCache cache.PostCache, defaultPageSize, maxPageSize int32) *NewsPostHandler {
	if postCache == nil {
		postCache = cache.Noop{}
	}
	return &NewsPostHandler{
		queries:         queries,
		cache:           postCache,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		newID:           uuid.New,
	}
}

// Routes returns the router mounted at /api/newsposts
func (h *NewsPostHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", newsposts.Handle(h.HandleListNewsPosts))
	r.Post("/", newsposts.Handle(h.HandleCreateNewsPost))
	r.Get("/{id}", newsposts.Handle(h.HandleGetNewsPost))
	r.Put("/{id}", newsposts.Handle(h.HandleUpdateNewsPost))
	r.Delete("/{id}", newsposts.Handle(h.HandleDeleteNewsPost))
	return r
}

func parsePostID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, newsposts.WrapMalformedRequestError(err, "invalid news post id")
	}
	logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", id.String()))
	return id, nil
}

// mapQueryError converts database errors to API errors
func mapQueryError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return newsposts.NewNotFoundError("news post not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		// check constraint violation
		return newsposts.NewValidationError(pgErr.Message)
	}
	return newsposts.WrapInternalError(err, msg)
}

// HandleListNewsPosts godoc
//
//	@Summary		List news posts
//	@Description	Returns a page of news posts, newest first.
//	@Tags			NewsPosts
//	@Produce		json
//	@Param			page	query		int	false	"Zero based page number"	default(0)
//	@Param			size	query		int	false	"Page size"					default(10)
//	@Success		200		{object}	newsposts.NewsPostListResponse
//	@Success		304		"Not modified (If-None-Match matched the ETag)"
//	@Failure		400		{object}	newsposts.ErrorResponse	"Invalid page or size"
//	@Failure		500		{object}	newsposts.ErrorResponse	"Internal error"
//	@Router			/api/newsposts [get]
func (h *NewsPostHandler) HandleListNewsPosts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := newsposts.ParsePagination(r.URL.Query(), h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return err
	}

	posts, err := h.queries.ListNewsPosts(ctx, database.ListNewsPostsParams{
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		return newsposts.WrapInternalError(err, "failed to list news posts")
	}

	total, err := h.queries.CountNewsPosts(ctx)
	if err != nil {
		return newsposts.WrapInternalError(err, "failed to count news posts")
	}

	response := newsposts.NewsPostListResponse{
		Items: make([]newsposts.NewsPostResponse, 0, len(posts)),
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}
	for _, post := range posts {
		response.Items = append(response.Items, newsposts.NewsPostToResponse(post))
	}

	newsposts.RespondWithCacheableJSON(w, r, http.StatusOK, response)
	return nil
}

// HandleGetNewsPost godoc
//
//	@Summary	Get a news post
//	@Tags		NewsPosts
//	@Produce	json
//	@Param		id	path		string	true	"News post ID"
//	@Success	200	{object}	newsposts.NewsPostResponse
//	@Success	304	"Not modified (If-None-Match matched the ETag)"
//	@Failure	400	{object}	newsposts.ErrorResponse	"Invalid news post ID"
//	@Failure	404	{object}	newsposts.ErrorResponse	"News post not found"
//	@Router		/api/newsposts/{id} [get]
func (h *NewsPostHandler) HandleGetNewsPost(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parsePostID(r)
	if err != nil {
		return err
	}

	post, ok := h.cache.Get(ctx, id)
	if !ok {
		post, err = h.queries.GetNewsPostByID(ctx, id)
		if err != nil {
			return mapQueryError(err, "failed to get news post")
		}
		h.cache.Add(ctx, post)
	}

	newsposts.RespondWithCacheableJSON(w, r, http.StatusOK, newsposts.NewsPostToResponse(post))
	return nil
}

// HandleCreateNewsPost godoc
//
//	@Summary	Create a news post
//	@Tags		NewsPosts
//	@Accept		json
//	@Produce	json
//	@Param		post	body		newsposts.CreateNewsPostRequest	true	"News post"
//	@Success	201		{object}	newsposts.NewsPostResponse
//	@Failure	400		{object}	newsposts.ErrorResponse	"Invalid request"
//	@Failure	413		{object}	newsposts.ErrorResponse	"Request too large"
//	@Router		/api/newsposts [post]
func (h *NewsPostHandler) HandleCreateNewsPost(w http.ResponseWriter, r *http.Request) error {
	var req newsposts.CreateNewsPostRequest
	if err := newsposts.DecodeJSONBody(r, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	post, err := h.queries.CreateNewsPost(r.Context(), database.CreateNewsPostParams{
		ID:        h.newID(),
		Header:    req.Header,
		Text:      req.Text,
		Genre:     string(*req.Genre),
		IsPrivate: *req.IsPrivate,
	})
	if err != nil {
		return mapQueryError(err, "failed to create news post")
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", post.ID.String()))

	w.Header().Set("Location", "/api/newsposts/"+post.ID.String())
	newsposts.RespondWithJSONPayload(w, http.StatusCreated, newsposts.NewsPostToResponse(post))
	return nil
}

// HandleUpdateNewsPost godoc
//
//	@Summary		Update a news post
//	@Description	Fields that are omitted keep their current value. At least one field is required.
//	@Tags			NewsPosts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"News post ID"
//	@Param			post	body		newsposts.UpdateNewsPostRequest	true	"Fields to change"
//	@Success		200		{object}	newsposts.NewsPostResponse
//	@Failure		400		{object}	newsposts.ErrorResponse	"Invalid request"
//	@Failure		404		{object}	newsposts.ErrorResponse	"News post not found"
//	@Router			/api/newsposts/{id} [put]
func (h *NewsPostHandler) HandleUpdateNewsPost(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parsePostID(r)
	if err != nil {
		return err
	}

	var req newsposts.UpdateNewsPostRequest
	if err := newsposts.DecodeJSONBody(r, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	post, err := h.queries.UpdateNewsPost(ctx, req.Params(id))
	if err != nil {
		return mapQueryError(err, "failed to update news post")
	}

	h.cache.Invalidate(ctx, id)

	newsposts.RespondWithJSONPayload(w, http.StatusOK, newsposts.NewsPostToResponse(post))
	return nil
}

// HandleDeleteNewsPost godoc
//
//	@Summary	Delete a news post
//	@Tags		NewsPosts
//	@Param		id	path	string	true	"News post ID"
//	@Success	204
//	@Failure	400	{object}	newsposts.ErrorResponse	"Invalid news post ID"
//	@Failure	404	{object}	newsposts.ErrorResponse	"News post not found"
//	@Router		/api/newsposts/{id} [delete]
func (h *NewsPostHandler) HandleDeleteNewsPost(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parsePostID(r)
	if err != nil {
		return err
	}

	if _, err := h.queries.DeleteNewsPost(ctx, id); err != nil {
		return mapQueryError(err, "failed to delete news post")
	}

	h.cache.Invalidate(ctx, id)

	newsposts.RespondWithStatusCodeOnly(w, http.StatusNoContent)
	return nil
}
