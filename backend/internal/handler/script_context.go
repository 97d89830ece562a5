package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ideaboard/ideaboard/shared/api"
	"github.com/ideaboard/ideaboard/shared/domain"
	internal_errors "github.com/ideaboard/ideaboard/shared/errors"
	mw "github.com/ideaboard/ideaboard/shared/middleware"
	"github.com/ideaboard/ideaboard/shared/utils"
)

const genericAjaxError = "Something went wrong. Refresh your browser and try again."

func (h *Handler) TopicScriptContext(w http.ResponseWriter, r *http.Request) {
	h.scriptContext(w, r, h.toggle.TopicContext)
}

func (h *Handler) ForumScriptContext(w http.ResponseWriter, r *http.Request) {
	h.scriptContext(w, r, h.toggle.ForumContext)
}

type contextFunc func(ctx context.Context, caller *domain.User, id domain.ObjectId) (*domain.ScriptContext, error)

func (h *Handler) scriptContext(w http.ResponseWriter, r *http.Request, build contextFunc) {
	params := api.ScriptContextParams{Id: chi.URLParam(r, "id")}
	if err := utils.Validate(&params); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := strconv.ParseInt(params.Id, 10, 64)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, internal_errors.New(http.StatusBadRequest, "invalid id: must be an integer"))
		return
	}

	sc, err := build(r.Context(), mw.GetUserFromContext(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, api.ScriptContextResponse{
		AjaxURL:          h.ajaxURL,
		GenericAjaxError: genericAjaxError,
		IsUserLoggedIn:   sc.LoggedIn,
		FavNonce:         sc.FavoriteNonce,
		SubsNonce:        sc.SubscriptionNonce,
	})
}
