package handlers

import (
	"net/http"
	"runtime"

	"github.com/information-sharing-networks/newsposts/internal/newsposts"
	"github.com/information-sharing-networks/newsposts/internal/version"
)

type VersionResponse struct {
	Service   string `json:"service" example:"newsposts-server"`
	Version   string `json:"version" example:"1.0.0"`
	BuildTime string `json:"build_time" example:"2026-01-28T10:00:00Z"`
	GitCommit string `json:"git_commit" example:"3f2c1a9"`
	GoVersion string `json:"go_version" example:"go1.25.4"`
}

// HandleVersion godoc
//
//	@Summary		Get version information
//	@Description	Returns the version and build information for the service
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	VersionResponse	"Version information"
//	@Router			/version [get]
func HandleVersion(info version.Info) http.HandlerFunc {
	response := VersionResponse{
		Service:   "newsposts-server",
		Version:   info.Version,
		BuildTime: info.BuildDate,
		GitCommit: info.GitCommit,
		GoVersion: runtime.Version(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		newsposts.RespondWithJSONPayload(w, http.StatusOK, response)
	}
}
