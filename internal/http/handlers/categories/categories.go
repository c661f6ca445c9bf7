package categories

import (
	"net/http"

	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} response.Response{data=[]types.Category}
// @Router /api/categories [get]
func List(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListCategories(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Counted(list, len(list)))
	}
}

// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Response{data=types.Category}
// @Failure 404 {object} response.Response "Category not found"
// @Router /api/categories/{id} [get]
func Get(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetCategory(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", c))
	}
}

// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body types.CategoryRequest true "Category"
// @Success 201 {object} response.Response{data=types.Category}
// @Failure 400 {object} response.Response "Bad request"
// @Router /api/categories [post]
func Create(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CategoryRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		c, err := svc.CreateCategory(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, response.RequestOK("", c))
	}
}

// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body types.CategoryRequest true "Fields to update"
// @Success 200 {object} response.Response{data=types.Category}
// @Failure 404 {object} response.Response "Category not found"
// @Router /api/categories/{id} [put]
func Update(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CategoryRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		c, err := svc.UpdateCategory(r.Context(), r.PathValue("id"), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", c))
	}
}

// @Summary Delete category
// @Description Refused while threads reference the category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Category not found"
// @Failure 409 {object} response.Response "Category still has threads"
// @Router /api/categories/{id} [delete]
func Delete(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Category deleted", nil))
	}
}
