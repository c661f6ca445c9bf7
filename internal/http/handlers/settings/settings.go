package settings

import (
	"encoding/json"
	"net/http"

	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/types/settings"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// GetTheme returns the app theme, creating the default on first use
// @Summary Get theme
// @Tags theme
// @Produce json
// @Success 200 {object} response.Response{data=settings.Theme}
// @Router /api/theme [get]
func GetTheme(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Theme(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", t))
	}
}

// UpdateTheme merges colors into the theme
// @Summary Update theme
// @Tags theme
// @Accept json
// @Produce json
// @Param theme body settings.Theme true "Colors to change"
// @Success 200 {object} response.Response{data=settings.Theme}
// @Failure 400 {object} response.Response "Invalid color"
// @Router /api/theme [put]
func UpdateTheme(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch json.RawMessage
		if err := request.DecodeJSON(r, &patch); err != nil {
			response.Error(w, err)
			return
		}

		t, err := svc.UpdateTheme(r.Context(), patch)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", t))
	}
}

// @Summary Get labels
// @Tags labels
// @Produce json
// @Success 200 {object} response.Response{data=settings.Labels}
// @Router /api/labels [get]
func GetLabels(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.Labels(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", l))
	}
}

// UpdateLabels replaces every section present in the body
// @Summary Update labels
// @Tags labels
// @Accept json
// @Produce json
// @Param labels body settings.Labels true "Sections to replace"
// @Success 200 {object} response.Response{data=settings.Labels}
// @Router /api/labels [put]
func UpdateLabels(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch json.RawMessage
		if err := request.DecodeJSON(r, &patch); err != nil {
			response.Error(w, err)
			return
		}

		l, err := svc.UpdateLabels(r.Context(), patch)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", l))
	}
}

// @Summary Get labels for one screen
// @Tags labels
// @Produce json
// @Param screen path string true "Section name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Labels for screen not found"
// @Router /api/labels/{screen} [get]
func GetLabelSection(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen := r.PathValue("screen")
		section, err := svc.LabelSection(r.Context(), screen)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", map[string]settings.Section{screen: section}))
	}
}

// UpdateLabelSection replaces one section with the body
// @Summary Replace labels for one screen
// @Description Keys missing from the body are removed from the section
// @Tags labels
// @Accept json
// @Produce json
// @Param screen path string true "Section name"
// @Param section body map[string]string true "Section strings"
// @Success 200 {object} response.Response{data=settings.Labels}
// @Failure 400 {object} response.Response "Unknown labels screen"
// @Router /api/labels/{screen} [put]
func UpdateLabelSection(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var section settings.Section
		if err := request.DecodeJSON(r, &section); err != nil {
			response.Error(w, err)
			return
		}

		l, err := svc.UpdateLabelSection(r.Context(), r.PathValue("screen"), section)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", l))
	}
}

// GetUIConfig returns a screen's config, creating an empty one if absent
// @Summary Get UI config
// @Tags config
// @Produce json
// @Param screen path string true "Screen"
// @Success 200 {object} response.Response{data=settings.UIConfig}
// @Router /config/{screen} [get]
func GetUIConfig(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.UIConfig(r.Context(), r.PathValue("screen"))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", c))
	}
}

// @Summary List UI configs
// @Tags config
// @Produce json
// @Success 200 {object} response.Response{data=[]settings.UIConfig}
// @Router /config [get]
func ListUIConfigs(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.UIConfigs(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Counted(list, len(list)))
	}
}

// SaveUIConfig upserts a screen's config
// @Summary Save UI config
// @Tags config
// @Accept json
// @Produce json
// @Param config body settings.UIConfigRequest true "Screen and config"
// @Success 200 {object} response.Response{data=settings.UIConfig}
// @Failure 400 {object} response.Response "Please provide screen and config"
// @Router /config [post]
func SaveUIConfig(svc *forum.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settings.UIConfigRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		c, err := svc.SaveUIConfig(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", c))
	}
}
