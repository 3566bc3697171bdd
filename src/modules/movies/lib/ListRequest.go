package movies

import (
	models "theater/src/modules/movies/models"
)

type MovieListRequest struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=20"`
}

// MovieListResponse is one page of movies plus links to its neighbours.
type MovieListResponse struct {
	Movies     []models.Movie `json:"movies"`
	PrevPage   *string        `json:"prev_page"`
	NextPage   *string        `json:"next_page"`
	TotalPages int            `json:"total_pages"`
	TotalItems int64          `json:"total_items"`
}

type MovieCreateRequest struct {
	Name      string      `json:"name" binding:"required,max=255"`
	Date      models.Date `json:"date" binding:"required,release_window"`
	Score     *float64    `json:"score" binding:"required,gte=0,lte=100"`
	Overview  *string     `json:"overview" binding:"required"`
	Status    string      `json:"status" binding:"required,movie_status"`
	Budget    *float64    `json:"budget" binding:"required,gte=0"`
	Revenue   *float64    `json:"revenue" binding:"required,gte=0"`
	Country   string      `json:"country" binding:"required"`
	Genres    []string    `json:"genres" binding:"required"`
	Actors    []string    `json:"actors" binding:"required"`
	Languages []string    `json:"languages" binding:"required"`
}

// MovieUpdateRequest carries a partial update; nil fields are left untouched.
// Relations are create-only and cannot be changed here.
type MovieUpdateRequest struct {
	Name     *string      `json:"name" binding:"omitnil,max=255"`
	Date     *models.Date `json:"date"`
	Score    *float64     `json:"score" binding:"omitnil,gte=0,lte=100"`
	Overview *string      `json:"overview"`
	Status   *string      `json:"status" binding:"omitnil,movie_status"`
	Budget   *float64     `json:"budget" binding:"omitnil,gte=0"`
	Revenue  *float64     `json:"revenue" binding:"omitnil,gte=0"`
}

// Changes maps the supplied fields to their column names.
func (r MovieUpdateRequest) Changes() map[string]any {
	changes := make(map[string]any)
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Date != nil {
		changes["date"] = *r.Date
	}
	if r.Score != nil {
		changes["score"] = *r.Score
	}
	if r.Overview != nil {
		changes["overview"] = *r.Overview
	}
	if r.Status != nil {
		changes["status"] = *r.Status
	}
	if r.Budget != nil {
		changes["budget"] = *r.Budget
	}
	if r.Revenue != nil {
		changes["revenue"] = *r.Revenue
	}
	return changes
}
