package api

import (
	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint under /api.
func RegisterRoutes(router gin.IRouter, h *Handler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteRoster, h.GetRoster)
		apiRoutes.GET(constants.RouteRosterConfig, h.GetRosterConfig)
		apiRoutes.PUT(constants.RouteRosterConfig, h.PutRosterConfig)

		apiRoutes.POST(constants.RouteSessions, h.CreateSession)
		apiRoutes.GET(constants.RouteSessionByID, h.GetSession)
		apiRoutes.POST(constants.RouteSessionStart, h.StartSession)
		apiRoutes.POST(constants.RouteSessionAdvance, h.AdvanceSession)
		apiRoutes.POST(constants.RouteSessionReset, h.ResetSession)
		apiRoutes.PUT(constants.RouteSessionRoster, h.ApplySessionRoster)

		apiRoutes.GET(constants.RouteVersion, Version)
	}
}
