package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxUploadSize   = 25 << 20
	maxUploadMemory = 8 << 20
)

type assetHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      ContentRepository
}

func newAssetHandler(repo ContentRepository) assetHandler {
	logger := log.With().Str("handlerName", "assetHandler").Logger()

	return assetHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
	}
}

// listAssets lists the asset library
// @Summary List project assets
// @Tags Assets
// @Produce json
// @Param internalCode query string false "Project internal code"
// @Param slug query string false "Project slug"
// @Success 200 {object} AssetCollection
// @Failure 400 {object} ErrorResponse
// @Router /assets [get]
func (h assetHandler) listAssets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assets, err := h.repo.ListProjectAssets(r.Context(), content.AssetFilter{
			InternalCode: q.Get("internalCode"),
			Slug:         q.Get("slug"),
		})
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("list", "project assets", err))
			return
		}

		h.responder.WriteJSON(w, AssetCollection{Assets: assets, Total: len(assets)})
	}
}

// uploadAsset stores one file for a project
// @Summary Upload project asset
// @Description Uploading to a path that already exists returns the existing asset
// @Tags Assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param internalCode formData string true "Project internal code"
// @Param slug formData string true "Project slug"
// @Param label formData string false "Label"
// @Param altText formData string false "Alt text"
// @Success 201 {object} content.ProjectAsset
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /asset [post]
func (h assetHandler) uploadAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(tooLarge.Limit))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		asset, err := h.repo.UploadProjectAsset(r.Context(), content.AssetUpload{
			Filename:     header.Filename,
			Body:         file,
			ContentType:  header.Header.Get("Content-Type"),
			InternalCode: r.FormValue("internalCode"),
			Slug:         r.FormValue("slug"),
			Label:        r.FormValue("label"),
			AltText:      r.FormValue("altText"),
		})
		if err != nil {
			h.responder.WriteError(w, wrapRepositoryError("upload", "project asset", err))
			return
		}

		h.logger.Info().Str("path", asset.Path).Str("assetId", asset.ID).Msg("asset stored")
		h.responder.WriteJSONStatus(w, http.StatusCreated, asset)
	}
}
