package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"url-shrinker/internal/managers"
	"url-shrinker/internal/metrics"
	"url-shrinker/internal/schemas"
	"url-shrinker/internal/stores"
	"url-shrinker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxShortIdAttempts bounds the retries after a generated short identifier collided with an existing one.
const maxShortIdAttempts = 3

type LinkHdl interface {
	CreateLink(ctx *gin.Context)
	ListLinks(ctx *gin.Context)
	Redirect(ctx *gin.Context)
}

type LinkHandler struct {
	DatabaseManager managers.DatabaseMgr
	Validator       *utils.Validator
	GenerateShortId utils.ShortIdGenerator
	Location        *time.Location
	Now             func() time.Time
}

// NewLinkHandler creates the link handler. Creation times of listed links are rendered in location.
func NewLinkHandler(databaseManager managers.DatabaseMgr, location *time.Location) LinkHdl {
	return &LinkHandler{
		DatabaseManager: databaseManager,
		Validator:       utils.GetValidator(),
		GenerateShortId: utils.GenerateShortId,
		Location:        location,
		Now:             time.Now,
	}
}

// CreateLink shortens the fullUrl of the body for the logged in user, once per distinct URL.
func (handler *LinkHandler) CreateLink(ctx *gin.Context) {
	pool := handler.DatabaseManager.GetPool()
	claims := sessionClaims(ctx)

	user, err := stores.NewUserStore(pool).FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// An empty body is a missing URL, not a malformed request.
	createRequest := &schemas.CreateLinkRequest{}
	if err := ctx.ShouldBindJSON(createRequest); err != nil && !errors.Is(err, io.EOF) {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if createRequest.FullUrl == "" {
		utils.WriteAndLogError(ctx, schemas.FullUrlRequired, http.StatusBadRequest, errors.New("fullUrl missing"))
		return
	}
	if !handler.Validator.IsValidURL(createRequest.FullUrl) {
		utils.WriteAndLogError(ctx, schemas.FullUrlInvalid, http.StatusBadRequest, errors.New("fullUrl invalid"))
		return
	}

	links := stores.NewLinkStore(pool)
	if _, err := links.FindByUserAndFullUrl(ctx, user.ID, createRequest.FullUrl); err == nil {
		utils.WriteAndLogError(ctx, schemas.LinkExists, http.StatusBadRequest, errors.New("link exists"))
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	link := &schemas.Link{
		ID:        uuid.New(),
		FullUrl:   createRequest.FullUrl,
		Clicks:    0,
		CreatedAt: handler.Now(),
		UserID:    user.ID,
		Username:  user.DisplayName(),
	}

	for attempt := 1; ; attempt++ {
		link.ShortUrl, err = handler.GenerateShortId()
		if err != nil {
			utils.WriteAndLogError(ctx, schemas.LinkCreationFailed, http.StatusInternalServerError, err)
			return
		}

		err = links.Insert(ctx, link)
		if errors.Is(err, stores.ErrShortUrlTaken) && attempt < maxShortIdAttempts {
			utils.LogMessageWithFields(ctx, "warn", "Short id collision, retrying")
			continue
		}
		break
	}

	if err != nil {
		switch {
		case errors.Is(err, stores.ErrShortUrlTaken):
			utils.WriteAndLogError(ctx, schemas.LinkCreationFailed, http.StatusInternalServerError, err)
		case errors.Is(err, stores.ErrDuplicate):
			utils.WriteAndLogError(ctx, schemas.LinkExists, http.StatusBadRequest, err)
		default:
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	metrics.LinksCreated.Inc()
	utils.WriteAndLogSuccess(ctx, "URL shrinked successfully", http.StatusOK)
}

// ListLinks returns the links of the logged in user, or of every user for admins.
func (handler *LinkHandler) ListLinks(ctx *gin.Context) {
	pool := handler.DatabaseManager.GetPool()

	user, ok := currentUser(ctx, stores.NewUserStore(pool))
	if !ok {
		return
	}

	sort := stores.ParseSort(ctx.Query(utils.SortClicksParamKey), ctx.Query(utils.SortDateParamKey))
	links := stores.NewLinkStore(pool)

	var (
		result []*schemas.Link
		err    error
	)
	if user.IsAdmin {
		result, err = links.ListAll(ctx, sort)
	} else {
		result, err = links.ListByUser(ctx, user.ID, sort)
	}
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if len(result) == 0 {
		utils.WriteAndLogError(ctx, schemas.NoDataFound, http.StatusNotFound, errors.New("no links"))
		return
	}

	response := make([]*schemas.LinkDTO, 0, len(result))
	for _, link := range result {
		response = append(response, schemas.NewLinkDTO(link, handler.Location))
	}
	utils.WriteAndLogResponse(ctx, response, http.StatusOK)
}

// Redirect counts a click on the short link in the path and redirects to its full URL.
func (handler *LinkHandler) Redirect(ctx *gin.Context) {
	shortUrl := ctx.Param(utils.ShortUrlKey)
	links := stores.NewLinkStore(handler.DatabaseManager.GetPool())

	link, err := links.FindByShortUrl(ctx, shortUrl)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			metrics.Redirects.WithLabelValues(metrics.ResultNotFound).Inc()
			utils.WriteAndLogError(ctx, schemas.ShortUrlNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := links.IncrementClicks(ctx, shortUrl); err != nil {
		metrics.Redirects.WithLabelValues(metrics.ResultFailure).Inc()
		if errors.Is(err, stores.ErrNotFound) {
			utils.WriteAndLogError(ctx, schemas.RedirectFailed, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	metrics.Redirects.WithLabelValues(metrics.ResultSuccess).Inc()
	utils.LogMessageWithFields(ctx, "info", "Redirecting to "+link.FullUrl)
	ctx.Redirect(http.StatusFound, link.FullUrl)
}
