package movies

import (
	"net/http"

	lib "theater/src/modules/movies/lib"
	service "theater/src/modules/movies/services"
	"theater/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type MovieController struct {
	service *service.MovieService
	log     logrus.FieldLogger
}

func NewMovieController(svc *service.MovieService, log logrus.FieldLogger) *MovieController {
	return &MovieController{service: svc, log: log}
}

func (mc *MovieController) ListMovies(c *gin.Context) {
	var req lib.MovieListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, mc.log, lib.BindingError(err))
		return
	}

	res, err := mc.service.List(c.Request.Context(), req.Page, req.PerPage)
	if err != nil {
		utils.RespondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (mc *MovieController) CreateMovie(c *gin.Context) {
	var req lib.MovieCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, mc.log, lib.BindingError(err))
		return
	}

	movie, err := mc.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

func (mc *MovieController) GetMovie(c *gin.Context) {
	id, ok := mc.movieID(c)
	if !ok {
		return
	}

	movie, err := mc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

func (mc *MovieController) UpdateMovie(c *gin.Context) {
	id, ok := mc.movieID(c)
	if !ok {
		return
	}

	var req lib.MovieUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, mc.log, lib.BindingError(err))
		return
	}

	if _, err := mc.service.Update(c.Request.Context(), id, req); err != nil {
		utils.RespondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Movie updated successfully."})
}

func (mc *MovieController) DeleteMovie(c *gin.Context) {
	id, ok := mc.movieID(c)
	if !ok {
		return
	}

	if err := mc.service.DeleteByID(c.Request.Context(), id); err != nil {
		utils.RespondError(c, mc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// movieID reads the :id path parameter, answering 422 when it is not a positive integer.
func (mc *MovieController) movieID(c *gin.Context) (uint, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, mc.log, utils.NewValidation("Validation failed.", utils.FieldError{
			Field:   "id",
			Message: "value is not a valid integer",
		}))
		return 0, false
	}
	return id, true
}
