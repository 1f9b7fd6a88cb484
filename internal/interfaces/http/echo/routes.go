package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, hostHandler *HostHandler) {
	server.POST("/api/v1/imports/hosts", importHandler.ImportHosts)
	server.POST("/api/v1/imports/hosts/async", importHandler.StartAsyncImport)
	server.GET("/api/v1/hosts/:id", hostHandler.GetHostByID)
}
