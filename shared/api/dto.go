package api

// Request DTOs

// TogglePayload is the form of a toggle action request. Fields that fail
// validation are treated as absent so that the toggle gates, not the
// decoder, decide how the request fails.
type TogglePayload struct {
	Id    string `validate:"omitempty,number"`
	Nonce string `validate:"omitempty,max=128,printascii"`
}

type ScriptContextParams struct {
	Id string `validate:"required,number"`
}

// Response DTOs

// ScriptContextResponse is what a topic or forum page script needs to issue
// toggles. FavNonce is omitted on forum pages.
type ScriptContextResponse struct {
	AjaxURL          string `json:"ideaboard_ajaxurl"`
	GenericAjaxError string `json:"generic_ajax_error"`
	IsUserLoggedIn   bool   `json:"is_user_logged_in"`
	FavNonce         string `json:"fav_nonce,omitempty"`
	SubsNonce        string `json:"subs_nonce"`
}
