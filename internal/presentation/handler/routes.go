package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gallery/internal/presentation"
)

// Routes groups every handler served by the API.
type Routes struct {
	Upload   *UploadHandler
	List     *ListHandler
	Get      *GetHandler
	Update   *UpdateHandler
	Delete   *DeleteHandler
	Download *DownloadHandler
	Stream   *StreamHandler
	Health   *HealthHandler
}

func (r Routes) Register(e *echo.Echo) {
	if r.Health != nil {
		e.GET("/health", r.Health.HandleHealth)
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group(presentation.APIPrefix)

	images := api.Group("/images")
	images.POST("", r.Upload.HandleUpload)
	images.GET("", r.List.HandleList)
	images.GET("/:"+presentation.IDParam, r.Get.HandleGet)
	images.PATCH("/:"+presentation.IDParam, r.Update.HandleUpdate)
	images.DELETE("/:"+presentation.IDParam, r.Delete.HandleDelete)
	images.GET("/:"+presentation.IDParam+"/download", r.Download.HandleDownload)

	api.GET("/notifications/stream", r.Stream.HandleStream)
}
