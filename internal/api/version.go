package api

import (
	"net/http"

	"github.com/shaharia-lab/notifyd/internal/build"
)

type versionResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Service:   build.ServiceName,
		Version:   build.Version,
		Commit:    build.CommitSHA,
		BuildDate: build.BuildDate,
	})
}
