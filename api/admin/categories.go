package admin

import (
	"net/http"

	"lemonshop_server/handling"
	"lemonshop_server/lib"
	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

type categoryMoveResult struct {
	ID    structs.ID `json:"id"`
	Moved bool       `json:"moved"`
}

// ListCategories returns the flat stored list, the tree and the path list
func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": ar.catalogService.RawCategories(ctx),
			"tree":       ar.catalogService.Categories(ctx),
			"paths":      ar.catalogService.CategoryPaths(ctx),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateCategoryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	category, saved, err := ar.catalogService.AddCategory(r.Context(), body.Name, body.ParentID)
	if err != nil {
		handling.HandleServiceError(err, "Failed to create category", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, category, "Category created")
}

func (ar *AdminRoutesManager) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.RenameCategoryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	saved, err := ar.catalogService.RenameCategory(r.Context(), id, body.Name)
	if err != nil {
		handling.HandleServiceError(err, "Failed to rename category", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, map[string]any{"id": id, "name": body.Name}, "Category renamed")
}

func (ar *AdminRoutesManager) MoveCategoryUp(w http.ResponseWriter, r *http.Request) {
	ar.reorderCategory(w, r, true)
}

func (ar *AdminRoutesManager) MoveCategoryDown(w http.ResponseWriter, r *http.Request) {
	ar.reorderCategory(w, r, false)
}

func (ar *AdminRoutesManager) reorderCategory(w http.ResponseWriter, r *http.Request, up bool) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	moved, saved, err := ar.catalogService.ReorderCategory(r.Context(), id, up)
	if err != nil {
		handling.HandleServiceError(err, "Failed to reorder category", ar.logger, w)
		return
	}

	result := categoryMoveResult{ID: id, Moved: moved}
	if !moved {
		gecho.Success(w, gecho.WithMessage("Category is already at the edge"), gecho.WithData(result), gecho.Send())
		return
	}
	handling.Respond(w, ar.logger, saved, result, "Category reordered")
}

// ListValidParents returns the categories id may be moved under
func (ar *AdminRoutesManager) ListValidParents(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	parents, err := ar.catalogService.ValidParents(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Failed to list parents", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(parents), gecho.Send())
}

func (ar *AdminRoutesManager) ChangeCategoryParent(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.MoveCategoryRequest](r)
	if err != nil {
		handling.HandleBodyError(err, ar.logger, w)
		return
	}

	moved, saved, err := ar.catalogService.MoveCategory(r.Context(), id, body.ParentID)
	if err != nil {
		handling.HandleServiceError(err, "Failed to move category", ar.logger, w)
		return
	}

	result := categoryMoveResult{ID: id, Moved: moved}
	if !moved {
		gecho.Success(w, gecho.WithMessage("Move rejected"), gecho.WithData(result), gecho.Send())
		return
	}
	handling.Respond(w, ar.logger, saved, result, "Category moved")
}

func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseIDParam(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	removed, saved, err := ar.catalogService.DeleteCategory(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Failed to delete category", ar.logger, w)
		return
	}

	handling.Respond(w, ar.logger, saved, map[string]any{"removed": removed}, "Category deleted")
}
