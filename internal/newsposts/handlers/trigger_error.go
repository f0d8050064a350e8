package handlers

import (
	"net/http"

	"github.com/information-sharing-networks/newsposts/internal/newsposts"
)

// HandleTriggerError godoc
//
//	@Summary		Trigger an error
//	@Description	Diagnostic endpoint that always fails. Use it to check error responses and error logging.
//	@Tags			Common
//	@Produce		json
//	@Failure		500	{object}	newsposts.ErrorResponse	"Always"
//	@Router			/error [get]
func HandleTriggerError(w http.ResponseWriter, r *http.Request) error {
	return newsposts.NewInternalError("error triggered by the diagnostic /error route")
}
