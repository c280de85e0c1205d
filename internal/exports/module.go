package exports

import (
	"net/http"

	apphttp "vanguard_backend/internal/http"
	"vanguard_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Module struct {
	svc *Service
}

func NewModule(svc *Service) *Module {
	return &Module{svc: svc}
}

func (m *Module) Name() string { return "exports" }

// RegisterRoutes mounts the export endpoint on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/exports/leads.csv", m.exportLeads)
}

func (m *Module) exportLeads(c *gin.Context) {
	data, result, err := m.svc.ExportLeads(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	// Archived exports answer with metadata and a presigned link; otherwise
	// the CSV streams back inline.
	if result.Download != nil {
		c.JSON(http.StatusOK, result)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, "text/csv", data)
}
