package handlers

import (
	"net/http"

	"github.com/swaggo/swag"

	// registers the OpenAPI document
	_ "github.com/information-sharing-networks/newsposts/internal/docs"
)

// HandleOpenAPIDoc godoc
//
//	@Summary		OpenAPI document
//	@Description	Returns the OpenAPI (swagger 2.0) description of this API.
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/swagger/doc.json [get]
func HandleOpenAPIDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "API documentation is not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
