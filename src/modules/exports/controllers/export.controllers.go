package exports

import (
	"net/http"

	service "theater/src/modules/exports/services"
	"theater/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ExportController struct {
	exporter *service.CatalogExporter
	log      logrus.FieldLogger
}

func NewExportController(exporter *service.CatalogExporter, log logrus.FieldLogger) *ExportController {
	return &ExportController{exporter: exporter, log: log}
}

// GetSnapshot streams a stored catalog snapshot.
func (ec *ExportController) GetSnapshot(c *gin.Context) {
	filepath := c.Param("filepath")
	if filepath == "" || filepath == "/" {
		utils.RespondError(c, ec.log, utils.NewNotFound("Snapshot not found."))
		return
	}

	reader, size, contentType, err := ec.exporter.Open(c.Request.Context(), filepath)
	if err != nil {
		utils.RespondError(c, ec.log, err)
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/json"
	}
	c.DataFromReader(http.StatusOK, size, contentType, reader, nil)
}

// CreateSnapshot runs an export immediately and reports where it was written.
func (ec *ExportController) CreateSnapshot(c *gin.Context) {
	key, err := ec.exporter.Export(c.Request.Context())
	if err != nil {
		utils.RespondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}
